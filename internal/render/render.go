// Package render turns a worksheet dataset into a chart image and appends it
// to the presentation deck.
package render

import (
	"fmt"
	"log"
	"os"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/dataset"
	"github.com/klytics/chartkit/internal/formats/pptx"
	"github.com/klytics/chartkit/internal/output"
)

// Fixed artifact locations, relative to the working directory.
const (
	ImageDir = "images"
	DeckPath = "presentation.pptx"
)

// WriteError is a filesystem failure while persisting an artifact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ExitCode reports write failures as system errors.
func (e *WriteError) ExitCode() int { return output.ExitSystemError }

// Result describes the artifacts of one render.
type Result struct {
	Deck      *pptx.Deck
	ImagePath string
	Slides    int
}

// Renderer draws charts and appends them to a deck.
type Renderer struct {
	ImageDir string
	Store    DeckStore
	Viewer   output.Viewer
	Logger   *log.Logger
}

// New returns a Renderer writing to the fixed artifact locations.
func New(viewer output.Viewer, logger *log.Logger) *Renderer {
	return &Renderer{
		ImageDir: ImageDir,
		Store:    FileStore{Path: DeckPath},
		Viewer:   viewer,
		Logger:   logger,
	}
}

// Render draws src as a chart of kind k, saves it as
// {ImageDir}/{worksheet}_{slug}.png, shows it, and appends a slide titled
// with the chart name to deck (a new deck when nil) before saving the deck.
// Nothing is written unless the chart could be drawn.
func (r *Renderer) Render(src dataset.Source, k chart.Kind, worksheet string, deck *pptx.Deck) (*Result, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", chart.ErrInvalidOption, int(k))
	}

	table, err := src.Table()
	if err != nil {
		return nil, err
	}
	fig, err := chart.Build(table, k)
	if err != nil {
		return nil, err
	}
	img, err := chart.PNG(fig)
	if err != nil {
		return nil, fmt.Errorf("could not draw %s: %w", k.Title(), err)
	}

	imagePath := chart.ImagePath(r.imageDir(), worksheet, k)
	if err := os.MkdirAll(r.imageDir(), 0755); err != nil {
		return nil, &WriteError{Path: r.imageDir(), Err: err}
	}
	if err := os.WriteFile(imagePath, img, 0644); err != nil {
		return nil, &WriteError{Path: imagePath, Err: err}
	}
	r.logf("wrote %s (%d bytes)", imagePath, len(img))

	if r.Viewer != nil {
		if err := r.Viewer.Show(imagePath); err != nil {
			r.logf("viewer: %v", err)
		}
	}

	if deck == nil {
		r.logf("starting a new deck")
		deck = pptx.New()
	}
	if err := deck.AddPictureSlide(k.Title(), img, pptx.ChartPlacement); err != nil {
		return nil, fmt.Errorf("could not add slide: %w", err)
	}
	if err := r.store().Save(deck); err != nil {
		return nil, err
	}

	slides := deck.SlideCount()
	r.logf("deck saved with %d slide(s)", slides)
	return &Result{Deck: deck, ImagePath: imagePath, Slides: slides}, nil
}

// LoadDeck returns the stored deck, or nil when there is none yet.
func (r *Renderer) LoadDeck() (*pptx.Deck, error) {
	return r.store().Load()
}

func (r *Renderer) imageDir() string {
	if r.ImageDir == "" {
		return ImageDir
	}
	return r.ImageDir
}

func (r *Renderer) store() DeckStore {
	if r.Store == nil {
		return FileStore{Path: DeckPath}
	}
	return r.Store
}

func (r *Renderer) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
