// Package output provides formatting utilities for CLI output.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Format represents an output format.
type Format int

const (
	// FormatText is plain text output.
	FormatText Format = iota
	// FormatJSON is JSON output.
	FormatJSON
)

// FormatFor picks JSON when the --json flag is set.
func FormatFor(jsonFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	return FormatText
}

// Writer handles formatted output to a destination.
type Writer struct {
	dest   io.Writer
	format Format
}

// NewWriter creates a new output writer with the given format.
func NewWriter(dest io.Writer, format Format) *Writer {
	return &Writer{
		dest:   dest,
		format: format,
	}
}

// JSON reports whether the writer emits JSON.
func (w *Writer) JSON() bool {
	return w.format == FormatJSON
}

// WriteJSON encodes a value as pretty-printed JSON.
func (w *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(w.dest)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteText writes plain text.
func (w *Writer) WriteText(s string) error {
	_, err := fmt.Fprint(w.dest, s)
	return err
}

// WriteLn writes a line of text.
func (w *Writer) WriteLn(s string) error {
	_, err := fmt.Fprintln(w.dest, s)
	return err
}

// WriteError writes an error message to w.
func WriteError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}

// ExitCode maps an error to the process exit status. Errors that carry
// their own code (ExitCode() int) keep it; anything else is a user error.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return ExitUserError
}
