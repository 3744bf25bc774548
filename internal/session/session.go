// Package session runs the interactive chart-to-slide workflow.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/dataset"
	"github.com/klytics/chartkit/internal/formats/xlsx"
	"github.com/klytics/chartkit/internal/render"
)

// Prompts and messages shown during a run.
const (
	PromptPath      = "Enter the path to the Excel file: "
	PromptWorksheet = "Enter the index of the worksheet you want to work with: "
	MsgNoWorksheets = "No worksheets found in the Excel file."
)

var (
	// ErrNoWorksheets is returned when the workbook could not be read or is empty.
	ErrNoWorksheets = errors.New("no worksheets found")
	// ErrInvalidSelection is returned for a worksheet index outside the menu.
	ErrInvalidSelection = errors.New("invalid worksheet selection")
)

// PromptOption is the chart option question.
func PromptOption() string {
	return "Enter the visualization option (" + chart.Menu() + "): "
}

// Session holds the collaborators of one interactive run.
type Session struct {
	Prompter Prompter
	Out      io.Writer
	Err      io.Writer
	Renderer *render.Renderer

	// Pivot reads worksheets as pivot data indexed by "Product Line"
	// instead of raw rows.
	Pivot  bool
	Logger *log.Logger
}

// Run prompts for a workbook, a worksheet and a chart option, then renders
// the chart and appends it to the deck.
func (s *Session) Run(ctx context.Context) (*render.Result, error) {
	path, err := s.ask(ctx, PromptPath)
	if err != nil {
		return nil, err
	}
	path = strings.Trim(strings.TrimSpace(path), `"'`)

	names := xlsx.ListSheets(path, s.Err)
	if len(names) == 0 {
		fmt.Fprintln(s.Out, MsgNoWorksheets)
		return nil, ErrNoWorksheets
	}

	heading := color.New(color.Bold)
	heading.Fprintln(s.Out, "Worksheet names:")
	for i, name := range names {
		fmt.Fprintf(s.Out, "%d. %s\n", i+1, name)
	}

	answer, err := s.ask(ctx, PromptWorksheet)
	if err != nil {
		return nil, err
	}
	worksheet, err := selectWorksheet(names, answer)
	if err != nil {
		return nil, err
	}

	sheet, err := xlsx.ReadSheet(path, worksheet)
	if err != nil {
		return nil, err
	}
	s.logf("read %q: %d rows", worksheet, sheet.RowCount())

	var src dataset.Source = dataset.FromRows(sheet.Rows)
	if s.Pivot {
		src = dataset.PivotFromRows(sheet.Rows)
	}

	deck, err := s.Renderer.LoadDeck()
	if err != nil {
		return nil, fmt.Errorf("could not open existing presentation: %w", err)
	}
	if deck != nil {
		s.logf("appending to a deck with %d slide(s)", deck.SlideCount())
	}

	option, err := s.ask(ctx, PromptOption())
	if err != nil {
		return nil, err
	}
	kind, err := chart.ParseOption(option)
	if err != nil {
		return nil, err
	}

	res, err := s.Renderer.Render(src, kind, worksheet, deck)
	if err != nil {
		return nil, err
	}

	green := color.New(color.FgGreen)
	green.Fprintf(s.Out, "Saved %s\n", res.ImagePath)
	green.Fprintf(s.Out, "Added slide %d (%s)\n", res.Slides, kind.Title())
	return res, nil
}

func (s *Session) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	answer, err := s.Prompter.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return answer, nil
}

// selectWorksheet resolves a 1-based menu answer.
func selectWorksheet(names []string, answer string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, strings.TrimSpace(answer))
	}
	if n < 1 || n > len(names) {
		return "", fmt.Errorf("%w: choose 1-%d", ErrInvalidSelection, len(names))
	}
	return names[n-1], nil
}

func (s *Session) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
