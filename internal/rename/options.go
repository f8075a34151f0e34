package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultMaxFileSize is the largest file whose contents are rewritten.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Validation errors.
var (
	ErrEmptyPlaceholder   = errors.New("placeholder must not be empty")
	ErrEmptyReplacement   = errors.New("project name must not be empty")
	ErrInvalidReplacement = errors.New("project name must not contain a path separator")
	ErrNotDirectory       = errors.New("not a directory")
)

// Options configures a Renamer.
type Options struct {
	Root         string
	Placeholder  string
	Replacement  string
	Ignore       Ignore
	MaxFileSize  int64 // zero selects DefaultMaxFileSize
	DryRun       bool
	Workers      int
	CaseVariants bool
}

// Validate checks o and fills in defaults for unset fields.
func (o *Options) Validate() error {
	if o.Placeholder == "" {
		return ErrEmptyPlaceholder
	}
	if o.Replacement == "" {
		return ErrEmptyReplacement
	}
	if strings.ContainsAny(o.Replacement, `/\`) || strings.ContainsRune(o.Replacement, filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrInvalidReplacement, o.Replacement)
	}

	if o.Root == "" {
		o.Root = "."
	}
	abs, err := filepath.Abs(o.Root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", o.Root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("directory %s: %w", o.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", o.Root, ErrNotDirectory)
	}
	o.Root = abs

	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return nil
}
