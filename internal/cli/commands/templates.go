package commands

import (
	_ "embed"
)

// configTemplate is the commented default configuration written by init.
//
//go:embed templates/renamer.yaml
var configTemplate []byte
