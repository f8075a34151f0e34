package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name       string
		content    []byte
		sampleSize int
		want       bool
	}{
		{name: "empty file", content: []byte{}, want: false},
		{name: "ascii text", content: []byte("hello PROJECT\n"), want: false},
		{name: "utf8 text", content: []byte("héllo wörld"), want: false},
		{name: "nul byte", content: []byte("abc\x00def"), want: true},
		{name: "invalid utf8", content: []byte{0xff, 0xfe, 'a'}, want: true},
		{name: "rune split by sample", content: []byte("aé"), sampleSize: 2, want: false},
		{name: "invalid before sample end", content: []byte{'a', 0xff, 'b', 'c'}, sampleSize: 3, want: true},
		{name: "nul beyond sample", content: []byte("abcd\x00"), sampleSize: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "f")
			require.NoError(t, os.WriteFile(p, tt.content, 0o600))

			got, err := IsBinary(p, tt.sampleSize)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsBinaryMissingFile(t *testing.T) {
	got, err := IsBinary(filepath.Join(t.TempDir(), "missing"), 0)

	require.Error(t, err)
	assert.True(t, got, "unreadable files are treated as binary")
}
