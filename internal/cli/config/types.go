// Package config loads renamer settings from defaults, a project config
// file, RENAMER_* environment variables and command-line flags.
package config

import (
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/renamer/internal/rename"
)

// ByteSize is a size in bytes. It decodes from integers or humanized strings
// such as "10MB" or "512 KiB".
type ByteSize int64

// Config holds all CLI configuration options.
type Config struct {
	Directory    string   `koanf:"directory" yaml:"directory,omitempty"`
	Placeholder  string   `koanf:"placeholder" yaml:"placeholder"`
	DryRun       bool     `koanf:"dry_run" yaml:"dry_run"`
	MaxSize      ByteSize `koanf:"max_size" yaml:"max_size"`
	IgnoreDirs   []string `koanf:"ignore_dirs" yaml:"ignore_dirs"`
	IgnoreFiles  []string `koanf:"ignore_files" yaml:"ignore_files"`
	Workers      int      `koanf:"workers" yaml:"workers"`
	CaseVariants bool     `koanf:"case_variants" yaml:"case_variants"`
	Report       string   `koanf:"report" yaml:"report,omitempty"`
	Verbose      bool     `koanf:"verbose" yaml:"verbose,omitempty"`
	OutputFormat string   `koanf:"output" yaml:"output,omitempty"`

	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-" yaml:"-"`
}

// Default configuration values.
const (
	DefaultDirectory = "."
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix        = "RENAMER_"
)

// ConfigFileNames lists the config file names searched for, in order.
var ConfigFileNames = []string{".renamer.yaml", ".renamer.yml", "renamer.yaml"}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	ig := rename.DefaultIgnore()
	return &Config{
		Directory:    DefaultDirectory,
		Placeholder:  rename.DefaultPlaceholder,
		MaxSize:      ByteSize(rename.DefaultMaxFileSize),
		IgnoreDirs:   ig.Dirs,
		IgnoreFiles:  ig.Files,
		OutputFormat: DefaultOutput,
	}
}

// globEscaper quotes the shell glob metacharacters of a literal file name.
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

// RenameOptions converts the configuration into engine options for a run
// that replaces the placeholder with projectName. Config files, including one
// passed with --config, are always ignored so the placeholder setting
// survives the run.
func (c *Config) RenameOptions(projectName string) rename.Options {
	ignoreFiles := append(append([]string(nil), c.IgnoreFiles...), ConfigFileNames...)
	if c.ConfigFile != "" {
		ignoreFiles = append(ignoreFiles, globEscaper.Replace(filepath.Base(c.ConfigFile)))
	}
	return rename.Options{
		Root:        c.Directory,
		Placeholder: c.Placeholder,
		Replacement: projectName,
		Ignore: rename.Ignore{
			Dirs:  c.IgnoreDirs,
			Files: ignoreFiles,
		},
		MaxFileSize:  int64(c.MaxSize),
		DryRun:       c.DryRun,
		Workers:      c.Workers,
		CaseVariants: c.CaseVariants,
	}
}
