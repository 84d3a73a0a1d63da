package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when the window cannot make progress.
var ErrInvalidConfiguration = errors.New("invalid chunker configuration")

// Config controls chunking behavior. Both sizes are measured in characters
// (Unicode code points).
type Config struct {
	MaxChunk int // Maximum chunk length.
	Overlap  int // Characters shared with the previous chunk.
}

// DefaultConfig returns the defaults used for syllabus digests.
func DefaultConfig() Config {
	return Config{
		MaxChunk: 2400,
		Overlap:  200,
	}
}

// Validate rejects windows that would never advance.
func (c Config) Validate() error {
	if c.MaxChunk <= 0 || c.Overlap < 0 || c.MaxChunk <= c.Overlap {
		return fmt.Errorf("%w: max chunk %d must exceed overlap %d", ErrInvalidConfiguration, c.MaxChunk, c.Overlap)
	}
	return nil
}

// Chunk is one window of the source text.
type Chunk struct {
	Text  string
	Index int // Sequence number, starting at 0.
	Start int // Offset of the first character in the source, in runes.
}

// Split breaks text into overlapping windows of at most cfg.MaxChunk
// characters. Each window after the first starts cfg.Overlap characters
// before the end of its predecessor; the last window may be shorter.
func Split(text string, cfg Config) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	step := cfg.MaxChunk - cfg.Overlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + cfg.MaxChunk
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Text:  string(runes[start:end]),
			Index: len(chunks),
			Start: start,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}

// Join reverses Split: it drops each chunk's overlap with its predecessor.
func Join(chunks []Chunk, overlap int) string {
	var out []rune
	for i, c := range chunks {
		r := []rune(c.Text)
		if i > 0 {
			if overlap >= len(r) {
				continue
			}
			r = r[overlap:]
		}
		out = append(out, r...)
	}
	return string(out)
}
