// Package cli provides the command-line interface for renamer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/renamer/internal/cli/commands"
	"github.com/leapstack-labs/renamer/internal/cli/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "renamer",
		Short: "renamer - project template placeholder replacement",
		Long: `renamer turns a freshly copied project template into your project.

It replaces a placeholder (default: PROJECT) with your project name in
directory names, file names and text file contents, deepest directories first.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, config.LoggerKey(), logger))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: <directory>/.renamer.yaml)")
	pf.StringP("directory", "d", config.DefaultDirectory, "Root directory to process")
	pf.String("placeholder", "", "Placeholder to replace (default: PROJECT)")
	pf.Bool("dry-run", false, "Show what would be changed without making actual changes")
	pf.String("max-size", "", "Maximum file size to process, in bytes or e.g. 10MiB (default: 10MiB)")
	pf.StringSlice("ignore-dirs", nil, "Directory patterns to ignore (replaces the defaults)")
	pf.StringSlice("ignore-files", nil, "File patterns to ignore (replaces the defaults)")
	pf.IntP("workers", "j", 0, "Files processed in parallel (default: number of CPUs)")
	pf.Bool("case-variants", false, "Also replace lower and title case forms of the placeholder")
	pf.String("report", "", "Write a JSON or YAML report of the run to this file")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	pf.BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagDirname("directory")

	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewApplyCommand())
	rootCmd.AddCommand(commands.NewPlanCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger builds the run logger. Warnings and errors always reach stderr;
// --verbose adds progress detail.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is canceled on
// interrupt by the caller.
func ExecuteContext(ctx context.Context) error {
	return execute(ctx, NewRootCmd())
}

// execute runs rootCmd and reports a failure on its error writer.
func execute(ctx context.Context, rootCmd *cobra.Command) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errOut := rootCmd.ErrOrStderr()
		if errors.Is(err, context.Canceled) {
			_, _ = fmt.Fprintln(errOut, "\nOperation cancelled by user.")
			return err
		}
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for renamer.

To load completions:

Bash:
  $ source <(renamer completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ renamer completion zsh > "${fpath[1]}/_renamer"

Fish:
  $ renamer completion fish | source

PowerShell:
  PS> renamer completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
