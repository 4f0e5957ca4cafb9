package rotator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"pkg.jsn.cam/banners/pkg/generator"
)

// LoadStats counts what a config load did.
type LoadStats struct {
	Loaded  int
	Skipped int
}

// LoadFile reads a banner config file into rt.
func (rt *Rotator) LoadFile(path string) (LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("open banner config: %w", err)
	}
	defer f.Close()
	return rt.Load(f)
}

// Load reads "url;shows_amount;category;..." records, the format bannergen
// writes. There is no header and the number of categories varies per record.
// Records the rotator ignores or has already seen are counted as skipped; a
// malformed record aborts the load.
func (rt *Rotator) Load(r io.Reader) (LoadStats, error) {
	reader := csv.NewReader(r)
	reader.Comma = generator.Delimiter
	reader.FieldsPerRecord = -1

	var stats LoadStats
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		line, _ := reader.FieldPos(0)

		url, shows, categories, err := parseRecord(record)
		if err != nil {
			return stats, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, err)
		}

		added, err := rt.AddBanner(url, shows, categories)
		switch {
		case errors.Is(err, ErrDuplicateBanner):
			rt.log.Warnf("[ROTATOR] line %d: %v", line, err)
			stats.Skipped++
		case err != nil:
			return stats, err
		case !added:
			rt.log.Debugf("[ROTATOR] line %d: ignoring banner %q", line, url)
			stats.Skipped++
		default:
			stats.Loaded++
		}
	}
}

func parseRecord(record []string) (string, uint32, []string, error) {
	if len(record) < 2 {
		return "", 0, nil, fmt.Errorf("expected url and shows_amount, got %d fields", len(record))
	}

	shows, err := strconv.ParseUint(record[1], 10, 32)
	if err != nil {
		return "", 0, nil, fmt.Errorf("shows_amount %q: %v", record[1], err)
	}

	categories := make([]string, 0, len(record)-2)
	for _, c := range record[2:] {
		if c != "" {
			categories = append(categories, c)
		}
	}
	return record[0], uint32(shows), categories, nil
}
