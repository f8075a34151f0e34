package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

var validOutputs = []string{"auto", "text", "markdown", "md", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Placeholder == "" {
		return fmt.Errorf("placeholder must not be empty")
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("max_size must be positive, got %d", int64(c.MaxSize))
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.OutputFormat != "" && !contains(validOutputs, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("unknown output format %q (want one of: auto, text, markdown, json)", c.OutputFormat)
	}
	if c.Report != "" {
		if _, err := ReportFormat(c.Report); err != nil {
			return err
		}
	}
	return nil
}

// ReportFormat returns "json" or "yaml" depending on the report file extension.
func ReportFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("report file %s must end in .json, .yaml or .yml", path)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
