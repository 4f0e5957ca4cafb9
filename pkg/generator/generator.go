package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
)

// Delimiter separates fields of every emitted record.
const Delimiter = ';'

// Generator produces test data rows
type Generator interface {
	// Init hands the generator its random source. Generators never touch
	// the global source so a seeded *rand.Rand reproduces a run exactly.
	Init(r *rand.Rand)

	// Row builds the i-th record (zero based). Nothing is written when it fails.
	Row(i int64) ([]string, error)

	// Description returns a human-readable description of the data format
	Description() string
}

// Progress receives one tick per emitted row. *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// Stats summarizes a finished (or aborted) run.
type Stats struct {
	Rows  int64
	Bytes int64
}

// NewRand returns a random source. A zero seed draws the seed from the
// runtime's entropy-seeded global source.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// ParseRowCount converts the rows_num argument into a row count.
func ParseRowCount(arg string) (int64, error) {
	if arg == "" {
		return 0, fmt.Errorf("%w: rows_num is required", ErrConfiguration)
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: rows_num %q is not an integer", ErrConfiguration, arg)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: rows_num must not be negative, got %d", ErrConfiguration, n)
	}
	return n, nil
}

// Run writes n rows produced by g to w as semicolon-delimited records.
// Rows completed before a failure are flushed to w before the error is
// returned; p may be nil.
func Run(g Generator, w io.Writer, n int64, p Progress) (Stats, error) {
	cw := &countingWriter{w: w}
	out := csv.NewWriter(cw)
	out.Comma = Delimiter

	var stats Stats
	for i := int64(0); i < n; i++ {
		row, err := g.Row(i)
		if err != nil {
			out.Flush()
			stats.Bytes = cw.n
			return stats, fmt.Errorf("row %d: %w", i, err)
		}
		if err := out.Write(row); err != nil {
			stats.Bytes = cw.n
			return stats, err
		}
		stats.Rows++
		if p != nil {
			_ = p.Add(1)
		}
	}

	out.Flush()
	stats.Bytes = cw.n
	return stats, out.Error()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
