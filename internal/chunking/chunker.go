package chunking

import (
	"iter"
	"slices"
)

// Default window parameters, in runes.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Chunker splits text into overlapping windows, preferring to end each window on a sentence.
type Chunker struct {
	size    int
	overlap int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithSize sets the maximum window length. Non-positive values keep the default.
func WithSize(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.size = n
		}
	}
}

// WithOverlap sets how many runes consecutive windows share. Negative values keep the default.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// New creates a Chunker with DefaultSize and DefaultOverlap unless overridden.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultSize,
		overlap: DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Size returns the maximum window length.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the overlap between consecutive windows.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunks returns a lazy sequence of windows over text. Each iteration restarts from the beginning.
//
// A window that stops short of the end of text is cut back to its last '.' when that period
// lies past the middle of the window. The next window starts overlap runes before the end of
// the emitted one. The sequence ends with the first window that reaches the end of text, or
// when a window is not longer than overlap, which also covers overlap >= size.
// Empty text yields nothing.
func (c *Chunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		runes := []rune(text)
		n := len(runes)

		for start := 0; start < n; {
			end := min(start+c.size, n)
			window := runes[start:end]

			if start+c.size < n {
				if p := lastPeriod(window); p > 0 && 2*p > len(window) {
					window = window[:p+1]
				}
			}

			if !yield(string(window)) {
				return
			}
			if start+len(window) >= n {
				return
			}

			step := len(window) - c.overlap
			if step <= 0 {
				return
			}
			start += step
		}
	}
}

// Split collects Chunks into a slice.
func (c *Chunker) Split(text string) []string {
	return slices.Collect(c.Chunks(text))
}

func lastPeriod(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' {
			return i
		}
	}
	return -1
}
