package rename

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// DefaultSampleSize is the number of leading bytes inspected by IsBinary.
const DefaultSampleSize = 8000

// IsBinary reports whether the file at path looks binary, judging by a sample
// of at most sampleSize bytes. A NUL byte or invalid UTF-8 marks the file as
// binary. Empty files are text. A file that cannot be read is reported as
// binary along with the error.
func IsBinary(path string, sampleSize int) (bool, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the walked tree
	if err != nil {
		return true, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, sampleSize)
	n, err := io.ReadFull(f, buf)
	switch {
	case err == io.EOF:
		return false, nil
	case err == io.ErrUnexpectedEOF:
		return looksBinary(buf[:n], false), nil
	case err != nil:
		return true, fmt.Errorf("read %s: %w", path, err)
	}
	return looksBinary(buf[:n], true), nil
}

// looksBinary applies the NUL and UTF-8 heuristics to sample. When truncated
// is set, a multi-byte rune split at the end of the sample is tolerated.
func looksBinary(sample []byte, truncated bool) bool {
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if truncated {
		sample = trimPartialRune(sample)
	}
	return !utf8.Valid(sample)
}

// trimPartialRune drops an incomplete UTF-8 sequence from the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return b
		}
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			return b
		}
	}
	return b
}
