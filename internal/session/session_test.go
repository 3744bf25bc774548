package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/dataset"
	"github.com/klytics/chartkit/internal/formats/xlsx"
	"github.com/klytics/chartkit/internal/output"
	"github.com/klytics/chartkit/internal/render"
)

func init() {
	color.NoColor = true
}

func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sales.xlsx")
	err := xlsx.WriteFile(&xlsx.Workbook{Sheets: []xlsx.Sheet{
		{Name: "Jan", Rows: [][]string{
			{dataset.CategoryColumn, "Week 1", "Week 2"},
			{"Widgets", "10", "12"},
			{"Gadgets", "7", "9"},
		}},
		{Name: "Feb", Rows: [][]string{
			{"Region", "Units"},
			{"North", "4"},
		}},
	}}, path)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

type harness struct {
	session *Session
	store   *render.MemoryStore
	out     *bytes.Buffer
	diag    *bytes.Buffer
	images  string
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	out := &bytes.Buffer{}
	diag := &bytes.Buffer{}
	store := &render.MemoryStore{}
	images := filepath.Join(t.TempDir(), "images")
	return &harness{
		session: &Session{
			Prompter: NewLinePrompter(strings.NewReader(input), out),
			Out:      out,
			Err:      diag,
			Renderer: &render.Renderer{ImageDir: images, Store: store, Viewer: output.NopViewer{}},
		},
		store:  store,
		out:    out,
		diag:   diag,
		images: images,
	}
}

func TestRunPivotBar(t *testing.T) {
	book := writeWorkbook(t, t.TempDir())
	h := newHarness(t, book+"\n1\n2\n")
	h.session.Pivot = true

	res, err := h.session.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v\n%s", err, h.out.String())
	}

	if res.ImagePath != filepath.Join(h.images, "Jan_bar.png") {
		t.Errorf("image path = %q", res.ImagePath)
	}
	if res.Slides != 1 || h.store.Saves != 1 {
		t.Errorf("slides = %d, saves = %d", res.Slides, h.store.Saves)
	}

	out := h.out.String()
	for _, want := range []string{PromptPath, "Worksheet names:\n1. Jan\n2. Feb\n", PromptWorksheet, PromptOption(), "Added slide 1 (Bar Chart)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunRawLineAppendsToStoredDeck(t *testing.T) {
	book := writeWorkbook(t, t.TempDir())

	first := newHarness(t, book+"\n2\n1\n")
	if _, err := first.session.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	second := newHarness(t, book+"\n2\n3\n")
	second.session.Renderer.Store = first.store
	res, err := second.session.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Slides != 2 {
		t.Errorf("expected the stored deck to grow to 2 slides, got %d", res.Slides)
	}
	if filepath.Base(res.ImagePath) != "Feb_pie.png" {
		t.Errorf("image = %s", res.ImagePath)
	}
}

func TestRunNoWorksheets(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.xlsx")
	h := newHarness(t, missing+"\n")

	_, err := h.session.Run(context.Background())
	if !errors.Is(err, ErrNoWorksheets) {
		t.Fatalf("expected ErrNoWorksheets, got %v", err)
	}
	if !strings.Contains(h.out.String(), MsgNoWorksheets) {
		t.Errorf("missing message in %q", h.out.String())
	}
	if !strings.HasPrefix(h.diag.String(), "Error reading Excel file: ") {
		t.Errorf("diagnostic = %q", h.diag.String())
	}
	if output.ExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d", output.ExitCode(err))
	}
}

func TestRunInvalidSelection(t *testing.T) {
	book := writeWorkbook(t, t.TempDir())
	for _, answer := range []string{"0", "3", "Jan"} {
		h := newHarness(t, book+"\n"+answer+"\n1\n")
		if _, err := h.session.Run(context.Background()); !errors.Is(err, ErrInvalidSelection) {
			t.Errorf("answer %q: expected ErrInvalidSelection, got %v", answer, err)
		}
	}
}

func TestRunInvalidOptionWritesNothing(t *testing.T) {
	book := writeWorkbook(t, t.TempDir())
	h := newHarness(t, book+"\n1\n4\n")
	h.session.Pivot = true

	_, err := h.session.Run(context.Background())
	if !errors.Is(err, chart.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if _, err := os.Stat(h.images); !os.IsNotExist(err) {
		t.Error("no image should be written")
	}
	if h.store.Saves != 0 {
		t.Error("deck should not be saved")
	}
}

func TestRunPivotWithoutCategoryColumn(t *testing.T) {
	book := writeWorkbook(t, t.TempDir())
	h := newHarness(t, book+"\n2\n2\n")
	h.session.Pivot = true

	if _, err := h.session.Run(context.Background()); !errors.Is(err, dataset.ErrMissingCategoryColumn) {
		t.Fatalf("expected ErrMissingCategoryColumn, got %v", err)
	}
}

func TestRunEndOfInput(t *testing.T) {
	h := newHarness(t, "")
	if _, err := h.session.Run(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness(t, "whatever.xlsx\n")
	if _, err := h.session.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSelectWorksheet(t *testing.T) {
	names := []string{"Jan", "Feb"}
	got, err := selectWorksheet(names, " 2 ")
	if err != nil || got != "Feb" {
		t.Errorf("selectWorksheet = %q, %v", got, err)
	}
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("a.xlsx\r\n"), &out)
	got, err := p.Prompt("file? ")
	if err != nil || got != "a.xlsx" {
		t.Errorf("Prompt = %q, %v", got, err)
	}
	if out.String() != "file? " {
		t.Errorf("prompt written as %q", out.String())
	}
	if _, err := p.Prompt("again? "); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestNewPrompterFallsBackToLines(t *testing.T) {
	p, err := NewPrompter(strings.NewReader(""), io.Discard, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*LinePrompter); !ok {
		t.Errorf("expected *LinePrompter, got %T", p)
	}
}

func TestWorkbookFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.csv", "C.XLSX"} {
		os.WriteFile(filepath.Join(dir, name), nil, 0644)
	}
	os.Mkdir(filepath.Join(dir, "sub"), 0755)

	got := workbookFiles(dir + string(filepath.Separator))
	sub := filepath.Join(dir, "sub") + string(filepath.Separator)
	want := map[string]bool{
		filepath.Join(dir, "a.xlsx"): true,
		filepath.Join(dir, "C.XLSX"): true,
		sub:                          true,
	}
	if len(got) != len(want) {
		t.Fatalf("workbookFiles = %v", got)
	}
	for _, g := range got {
		if !want[g] {
			t.Errorf("unexpected entry %q", g)
		}
	}
}

func TestPrepareHistory(t *testing.T) {
	dir := t.TempDir()

	if err := prepareHistory(""); err != nil {
		t.Errorf("empty history path: %v", err)
	}

	nested := filepath.Join(dir, "a", "b", "history")
	if err := prepareHistory(nested); err != nil {
		t.Fatalf("prepareHistory: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(nested)); err != nil || !info.IsDir() {
		t.Errorf("history directory was not created: %v", err)
	}

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	err := prepareHistory(filepath.Join(blocker, "history"))
	if err == nil || !strings.Contains(err.Error(), "session.history") {
		t.Errorf("expected history directory error, got %v", err)
	}
}
