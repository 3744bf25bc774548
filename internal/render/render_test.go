package render

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/dataset"
	"github.com/klytics/chartkit/internal/formats/pptx"
	"github.com/klytics/chartkit/internal/formats/xlsx"
	"github.com/klytics/chartkit/internal/output"
)

type recordingViewer struct {
	shown []string
	err   error
}

func (v *recordingViewer) Show(path string) error {
	v.shown = append(v.shown, path)
	return v.err
}

func salesSource() dataset.Source {
	return dataset.PivotSource{Columns: []dataset.PivotColumn{
		{Name: dataset.CategoryColumn, Cells: []string{"Widgets", "Gadgets"}},
		{Name: "Jan", Cells: []string{"10", "20"}},
		{Name: "Feb", Cells: []string{"5", "15"}},
	}}
}

func newTestRenderer(t *testing.T) (*Renderer, *MemoryStore, *recordingViewer) {
	t.Helper()
	store := &MemoryStore{}
	viewer := &recordingViewer{}
	r := &Renderer{
		ImageDir: filepath.Join(t.TempDir(), "images"),
		Store:    store,
		Viewer:   viewer,
		Logger:   log.New(&bytes.Buffer{}, "[render] ", 0),
	}
	return r, store, viewer
}

func TestRenderBarNamesImage(t *testing.T) {
	r, store, viewer := newTestRenderer(t)

	k, err := chart.ParseOption("2")
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Render(salesSource(), k, "Jan", nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := filepath.Join(r.ImageDir, "Jan_bar.png")
	if res.ImagePath != want {
		t.Errorf("image path = %q, want %q", res.ImagePath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("image not written: %v", err)
	}
	if len(viewer.shown) != 1 || viewer.shown[0] != want {
		t.Errorf("viewer shown %v", viewer.shown)
	}
	if res.Slides != 1 || store.Saves != 1 {
		t.Errorf("slides = %d, saves = %d", res.Slides, store.Saves)
	}

	pres, err := pptx.Parse(store.Data)
	if err != nil {
		t.Fatal(err)
	}
	if pres.Slides[0].Title != "Bar Chart" || pres.Slides[0].Pictures != 1 {
		t.Errorf("slide = %+v", pres.Slides[0])
	}
}

func TestRenderTwiceOverwritesImageAddsSlides(t *testing.T) {
	r, store, _ := newTestRenderer(t)

	res, err := r.Render(salesSource(), chart.Line, "Jan", nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err = r.Render(salesSource(), chart.Line, "Jan", res.Deck)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(r.ImageDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "Jan_line.png" {
		t.Errorf("images dir holds %d entries", len(entries))
	}
	if res.Slides != 2 {
		t.Errorf("expected 2 slides, got %d", res.Slides)
	}

	deck, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if deck.SlideCount() != 2 {
		t.Errorf("stored deck has %d slides", deck.SlideCount())
	}
}

func TestRenderAppendsToExistingDeck(t *testing.T) {
	r, store, _ := newTestRenderer(t)

	for k := 1; k <= 3; k++ {
		deck, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}
		before := 0
		if deck != nil {
			before = deck.SlideCount()
		}
		res, err := r.Render(salesSource(), chart.Pie, "Feb", deck)
		if err != nil {
			t.Fatal(err)
		}
		if res.Slides != before+1 {
			t.Errorf("run %d: %d slides, want %d", k, res.Slides, before+1)
		}
	}
}

func TestRenderRejectsInvalidKind(t *testing.T) {
	r, store, viewer := newTestRenderer(t)

	_, err := r.Render(salesSource(), chart.Kind(7), "Jan", nil)
	if !errors.Is(err, chart.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if output.ExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d", output.ExitCode(err))
	}
	if _, err := os.Stat(r.ImageDir); !os.IsNotExist(err) {
		t.Error("images dir should not exist")
	}
	if store.Saves != 0 || len(viewer.shown) != 0 {
		t.Error("no artifacts should be written")
	}
}

func TestRenderMissingCategoryColumn(t *testing.T) {
	r, store, _ := newTestRenderer(t)

	src := dataset.PivotSource{Columns: []dataset.PivotColumn{
		{Name: "Region", Cells: []string{"North"}},
		{Name: "Jan", Cells: []string{"1"}},
	}}
	_, err := r.Render(src, chart.Bar, "Jan", nil)
	if !errors.Is(err, dataset.ErrMissingCategoryColumn) {
		t.Fatalf("expected ErrMissingCategoryColumn, got %v", err)
	}
	if store.Saves != 0 {
		t.Error("deck should not be saved")
	}
}

func TestRenderViewerFailureIsNotFatal(t *testing.T) {
	r, _, viewer := newTestRenderer(t)
	var logs bytes.Buffer
	r.Logger = log.New(&logs, "[render] ", 0)
	viewer.err = errors.New("no display")

	if _, err := r.Render(salesSource(), chart.Line, "Jan", nil); err != nil {
		t.Fatalf("viewer failure should not fail the render: %v", err)
	}
	if !strings.Contains(logs.String(), "no display") {
		t.Errorf("viewer failure not logged: %q", logs.String())
	}
}

func TestRenderImageWriteError(t *testing.T) {
	r, store, _ := newTestRenderer(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	r.ImageDir = filepath.Join(blocker, "images")

	_, err := r.Render(salesSource(), chart.Bar, "Jan", nil)
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	if output.ExitCode(err) != output.ExitSystemError {
		t.Errorf("exit code = %d", output.ExitCode(err))
	}
	if store.Saves != 0 {
		t.Error("deck should not be saved after an image failure")
	}
}

func TestFileStore(t *testing.T) {
	store := FileStore{Path: filepath.Join(t.TempDir(), DeckPath)}

	deck, err := store.Load()
	if err != nil || deck != nil {
		t.Fatalf("missing file: deck=%v err=%v", deck, err)
	}

	bad := FileStore{Path: filepath.Join(t.TempDir(), "missing-dir", DeckPath)}
	err = bad.Save(pptx.New())
	var we *WriteError
	if !errors.As(err, &we) || we.ExitCode() != output.ExitSystemError {
		t.Fatalf("expected WriteError, got %v", err)
	}
}

// Reads a real workbook, writes real PNGs and round-trips presentation.pptx on disk.
func TestRenderFromWorkbookIntegration(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "sales.xlsx")
	err := xlsx.WriteFile(&xlsx.Workbook{Sheets: []xlsx.Sheet{{
		Name: "Q1",
		Rows: [][]string{
			{dataset.CategoryColumn, "Jan", "Feb", "Mar"},
			{"Widgets", "10", "12", "9"},
			{"Gadgets", "7", "", "11"},
			{"Gizmos", "3", "4", "5"},
		},
	}}}, book)
	if err != nil {
		t.Fatal(err)
	}

	sheet, err := xlsx.ReadSheet(book, "Q1")
	if err != nil {
		t.Fatal(err)
	}

	store := FileStore{Path: filepath.Join(dir, DeckPath)}
	r := &Renderer{ImageDir: filepath.Join(dir, ImageDir), Store: store, Viewer: output.NopViewer{}}

	for _, k := range chart.Kinds {
		deck, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.Render(dataset.PivotFromRows(sheet.Rows), k, sheet.Name, deck); err != nil {
			t.Fatalf("%s: %v", k.Title(), err)
		}
	}

	pres, err := pptx.ReadFile(store.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(pres.Slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(pres.Slides))
	}
	for i, k := range chart.Kinds {
		if pres.Slides[i].Title != k.Title() {
			t.Errorf("slide %d title = %q, want %q", i+1, pres.Slides[i].Title, k.Title())
		}
		if _, err := os.Stat(chart.ImagePath(r.ImageDir, "Q1", k)); err != nil {
			t.Errorf("missing image for %s: %v", k.Title(), err)
		}
	}
}
