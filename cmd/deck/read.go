package deck

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/formats/pptx"
	"github.com/klytics/chartkit/internal/output"
	"github.com/klytics/chartkit/internal/render"
)

func newReadCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "read [file.pptx]",
		Short: "List the slides of a deck",
		Long:  "Reads a .pptx file (presentation.pptx when omitted) and lists its slides in presentation order with titles and picture counts.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			filePath := render.DeckPath
			if len(args) == 1 {
				filePath = args[0]
			}
			if !strings.HasSuffix(strings.ToLower(filePath), ".pptx") {
				return fmt.Errorf("expected a .pptx file, got %q", filePath)
			}

			pres, err := pptx.ReadFile(filePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonFlag:
				return output.PrintJSON(out, "deck read", pres)
			case plain:
				_, err := fmt.Fprint(out, pres.PlainText())
				return err
			}
			return outputPretty(out, pres)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Output slide text without formatting")
	return cmd
}

func outputPretty(out io.Writer, pres *pptx.Presentation) error {
	heading := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	for _, slide := range pres.Slides {
		heading.Fprintf(out, "Slide %d", slide.Number)
		if slide.Title != "" {
			heading.Fprintf(out, ": %s", slide.Title)
		}
		heading.Fprintln(out)

		for _, text := range slide.TextContent {
			if text == slide.Title {
				continue
			}
			fmt.Fprintf(out, "  %s\n", text)
		}
		if slide.Pictures > 0 {
			dim.Fprintf(out, "  %d picture(s)\n", slide.Pictures)
		}
	}

	dim.Fprintf(out, "--- %d slides ---\n", len(pres.Slides))
	return nil
}
