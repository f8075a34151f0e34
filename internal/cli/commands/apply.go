package commands

import (
	"fmt"

	"github.com/leapstack-labs/renamer/internal/rename"
	"github.com/spf13/cobra"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <project-name>",
		Short: "Replace the placeholder with a project name",
		Long: `Replace every occurrence of the placeholder (default: PROJECT) with the
given project name in directory names, file names and text file contents.

Directories are renamed deepest first, then file contents are rewritten and
files renamed using a pool of workers. Binary files, files above --max-size and
paths matching --ignore-dirs or --ignore-files are left alone.

Output adapts to environment:
  - Terminal: Styled output with progress
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable report`,
		Example: `  # Rename the template in the current directory
  renamer apply acme

  # Rename a template checked out elsewhere
  renamer apply acme -d ./my-template

  # Preview without touching anything
  renamer apply acme --dry-run

  # Also replace "project" and "Project"
  renamer apply acme --case-variants

  # Save a machine-readable report
  renamer apply acme --report rename-report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, args[0], false)
		},
	}

	return cmd
}

// NewPlanCommand creates the plan command, a dry-run alias of apply.
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <project-name>",
		Short: "Show what apply would change without changing anything",
		Long: `Report the directories and files that would be renamed and the files whose
contents would be updated. Nothing on disk is modified.

This is equivalent to 'renamer apply --dry-run'.`,
		Example: `  # Preview a rename
  renamer plan acme

  # Preview as JSON
  renamer plan acme -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, args[0], true)
		},
	}

	return cmd
}

func runRename(cmd *cobra.Command, projectName string, forceDryRun bool) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := *cmdCtx.Cfg
	if forceDryRun {
		cfg.DryRun = true
	}
	r := cmdCtx.Renderer

	view := newRunView(r)
	renamer, err := rename.New(cfg.RenameOptions(projectName),
		rename.WithLogger(cmdCtx.Logger),
		rename.WithObserver(view),
	)
	if err != nil {
		return err
	}

	view.intro(renamer.Options())
	report, err := renamer.Run(cmd.Context())
	view.finish()
	if err != nil {
		return err
	}

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, report); err != nil {
			return err
		}
		cmdCtx.Logger.Info("report written", "path", cfg.Report)
	}

	if err := renderReport(r, report); err != nil {
		return err
	}

	if report.Stats.Errors > 0 {
		return fmt.Errorf("%d path(s) could not be processed", report.Stats.Errors)
	}
	return nil
}
