// Package chart holds the chart-selection policy: which chart kinds exist,
// how a dataset maps onto each of them, and how the result is drawn.
package chart

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidOption is returned for a chart option outside the known set.
var ErrInvalidOption = errors.New("invalid chart option")

// Kind is a chart type.
type Kind int

const (
	// Line draws one line per column.
	Line Kind = iota + 1
	// Bar draws grouped bars, one group per category.
	Bar
	// Pie draws column totals as slices.
	Pie
)

// Kinds lists every chart kind in option order.
var Kinds = []Kind{Line, Bar, Pie}

// ParseOption maps a menu option ("1", "2", "3") to a Kind.
func ParseOption(option string) (Kind, error) {
	switch strings.TrimSpace(option) {
	case "1":
		return Line, nil
	case "2":
		return Bar, nil
	case "3":
		return Pie, nil
	default:
		return 0, fmt.Errorf("%w %q — choose 1 (line), 2 (bar) or 3 (pie)", ErrInvalidOption, option)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Line, Bar, Pie:
		return true
	}
	return false
}

// Option returns the menu option for k.
func (k Kind) Option() string {
	return fmt.Sprintf("%d", int(k))
}

// Title is the display title used for the chart and its slide.
func (k Kind) Title() string {
	switch k {
	case Line:
		return "Line Chart"
	case Bar:
		return "Bar Chart"
	case Pie:
		return "Pie Chart"
	}
	return ""
}

// Slug is the short name used in image file names.
func (k Kind) Slug() string {
	switch k {
	case Line:
		return "line"
	case Bar:
		return "bar"
	case Pie:
		return "pie"
	}
	return ""
}

func (k Kind) String() string {
	if s := k.Slug(); s != "" {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ImagePath returns dir/{worksheet}_{slug}.png.
func ImagePath(dir, worksheet string, k Kind) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", worksheet, k.Slug()))
}

// Menu returns the option prompt listing every kind.
func Menu() string {
	parts := make([]string, len(Kinds))
	for i, k := range Kinds {
		parts[i] = fmt.Sprintf("%s for %s", k.Option(), k.Title())
	}
	return strings.Join(parts, ", ")
}
