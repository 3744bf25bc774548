// Package cmd contains all CLI commands for the chartkit binary.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/cmd/completion"
	cmdconfig "github.com/klytics/chartkit/cmd/config"
	"github.com/klytics/chartkit/cmd/deck"
	"github.com/klytics/chartkit/cmd/doctor"
	"github.com/klytics/chartkit/cmd/sheets"
	"github.com/klytics/chartkit/cmd/version"
	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/output"
	"github.com/klytics/chartkit/internal/render"
	"github.com/klytics/chartkit/internal/session"
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var (
		jsonOutput bool
		verbose    bool
		noColor    bool
		noShow     bool
		pivot      bool
	)

	rootCmd := &cobra.Command{
		Use:   "chartkit",
		Short: "Turn spreadsheet worksheets into chart slides",
		Long: `chartkit reads a worksheet from an .xlsx file, draws a line, bar or pie
chart from it, saves the chart under images/ and appends it as a slide to
presentation.pptx in the current directory.

Run without arguments to start the interactive prompts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("could not load config: %w", err)
			}
			if !cfg.Output.Color {
				color.NoColor = true
			}

			var logOut io.Writer = io.Discard
			if verbose {
				logOut = cmd.ErrOrStderr()
			}

			var viewer output.Viewer = output.NopViewer{}
			if !noShow {
				viewer = output.NewViewer(cfg.Display.Enabled, cfg.Display.Command, cfg.Display.Wait)
			}

			prompter, err := session.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Session.History)
			if err != nil {
				return err
			}
			defer prompter.Close()

			s := &session.Session{
				Prompter: prompter,
				Out:      cmd.OutOrStdout(),
				Err:      cmd.ErrOrStderr(),
				Renderer: render.New(viewer, log.New(logOut, "[render] ", log.LstdFlags)),
				Pivot:    pivot,
				Logger:   log.New(logOut, "[session] ", log.LstdFlags),
			}
			_, err = s.Run(cmd.Context())
			return err
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	rootCmd.Flags().BoolVar(&noShow, "no-show", false, "Do not open the chart in an image viewer")
	rootCmd.Flags().BoolVar(&pivot, "pivot", false, `Treat the worksheet as pivot data indexed by "Product Line"`)

	// Register subcommands
	rootCmd.AddCommand(sheets.NewCommand())
	rootCmd.AddCommand(deck.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and exits with a status matching the error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCommand()
	if c, err := rootCmd.ExecuteContextC(ctx); err != nil {
		code := reportError(os.Stdout, os.Stderr, c, err)
		stop()
		os.Exit(code)
	}
}

// reportError prints err as a JSON envelope on stdout when the failed
// command ran with --json, and as "Error: ..." on stderr otherwise.
func reportError(stdout, stderr io.Writer, c *cobra.Command, err error) int {
	jsonFlag := false
	if c != nil {
		jsonFlag, _ = c.Flags().GetBool("json")
	}
	if jsonFlag {
		if encErr := output.PrintJSONError(stdout, commandName(c), err); encErr == nil {
			return output.ExitCode(err)
		}
	}
	output.WriteError(stderr, "%s", err)
	return output.ExitCode(err)
}

// commandName is the command path without the binary name, e.g. "deck read".
func commandName(c *cobra.Command) string {
	if !c.HasParent() {
		return c.Name()
	}
	return strings.TrimPrefix(c.CommandPath(), c.Root().Name()+" ")
}
