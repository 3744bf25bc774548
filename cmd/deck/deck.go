// Package deck provides CLI commands for inspecting the chart deck.
package deck

import "github.com/spf13/cobra"

// NewCommand returns the deck subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Inspect the presentation charts are appended to",
		Long:  "Commands for working with the .pptx deck chartkit appends chart slides to (presentation.pptx by default).",
	}

	cmd.AddCommand(newReadCommand())

	return cmd
}
