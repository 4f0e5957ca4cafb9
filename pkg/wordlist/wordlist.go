// Package wordlist loads the vocabulary banner categories are drawn from.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"pkg.jsn.cam/banners/pkg/generator"
)

// DefaultPath is where bannergen looks for the word list, relative to the
// working directory.
const DefaultPath = "words_alpha.txt"

const maxLineSize = 1 << 20

// Load reads the word list at path. Any failure to open or read the file
// wraps generator.ErrResource.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open word list: %v", generator.ErrResource, err)
	}
	defer f.Close()

	words, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// Read returns one entry per line of r with line terminators stripped.
// Blank lines and duplicates are kept as they are.
func Read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var words []string
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read word list: %v", generator.ErrResource, err)
	}
	return words, nil
}
