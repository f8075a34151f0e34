package rename

import (
	"path"
	"path/filepath"
	"strings"
)

// Default ignore patterns applied when none are configured.
var (
	DefaultIgnoreDirs = []string{
		".git", ".svn", ".hg", "__pycache__", "node_modules", "venv", ".venv",
	}
	DefaultIgnoreFiles = []string{
		"*.pyc", "*.pyo", "*.so", "*.dll", "*.exe", "*.bin", "*.jpg", "*.png", "*.gif",
	}
)

// MatchesAny reports whether name matches any of the shell glob patterns.
// Character classes may be negated with either [!...] or [^...]. Malformed
// patterns never match.
func MatchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(negatedClasses(p), name); err == nil && ok {
			return true
		}
	}
	return false
}

// negatedClasses rewrites the shell's [!...] negation to the [^...] form
// understood by path.Match. Escaped brackets are left alone.
func negatedClasses(pattern string) string {
	if !strings.Contains(pattern, "[!") {
		return pattern
	}
	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			i++
			b.WriteByte(pattern[i])
		case c == '[' && i+1 < len(pattern) && pattern[i+1] == '!':
			b.WriteString("[^")
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Ignore holds the directory and file patterns excluded from a run.
type Ignore struct {
	Dirs  []string `json:"dirs" yaml:"dirs"`
	Files []string `json:"files" yaml:"files"`
}

// DefaultIgnore returns a copy of the default ignore patterns.
func DefaultIgnore() Ignore {
	return Ignore{
		Dirs:  append([]string(nil), DefaultIgnoreDirs...),
		Files: append([]string(nil), DefaultIgnoreFiles...),
	}
}

// Dir reports whether any element of rel, a path relative to the run root,
// matches a directory pattern.
func (i Ignore) Dir(rel string) bool {
	if rel == "" || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part != "" && MatchesAny(part, i.Dirs) {
			return true
		}
	}
	return false
}

// File reports whether the base name of p matches a file pattern.
func (i Ignore) File(p string) bool {
	return MatchesAny(filepath.Base(p), i.Files)
}
