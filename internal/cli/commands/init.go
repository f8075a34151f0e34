package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/renamer/internal/cli/config"
	"github.com/leapstack-labs/renamer/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default renamer configuration",
		Long: `Write a commented .renamer.yaml with the default settings to a template
directory, so the placeholder, ignore patterns and size limit travel with the
template.`,
		Example: `  # Initialize in current directory
  renamer init

  # Initialize a template checked out elsewhere
  renamer init ./my-template

  # Force overwrite existing config
  renamer init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	if err := os.WriteFile(configPath, configTemplate, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]string{"config": configPath})
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("renamer configuration written!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Adjust the placeholder and ignore patterns if needed")
	r.Println("  2. Run 'renamer plan <project-name>' to preview the changes")
	r.Println("  3. Run 'renamer apply <project-name>' to rename the template")

	return nil
}
