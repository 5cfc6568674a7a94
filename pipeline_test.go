package scantab

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/tsawler/scantab/ocr"
	"github.com/tsawler/scantab/raster"
)

// fakePage is one canned OCR response, keyed by the page image bytes.
type fakePage struct {
	text     string
	words    []ocr.Word
	textErr  error
	wordsErr error
}

// fakeEngine serves canned responses and records which pages had word-level
// recognition run. Safe for concurrent use.
type fakeEngine struct {
	mu         sync.Mutex
	pages      map[string]fakePage
	wordsCalls []string
	closed     bool
}

func (f *fakeEngine) PageText(image []byte) (string, error) {
	page := f.pages[string(image)]
	return page.text, page.textErr
}

func (f *fakeEngine) Words(image []byte) ([]ocr.Word, error) {
	f.mu.Lock()
	f.wordsCalls = append(f.wordsCalls, string(image))
	f.mu.Unlock()
	page := f.pages[string(image)]
	return page.words, page.wordsErr
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// fakeRasterizer returns fixed page images without touching the filesystem.
type fakeRasterizer struct {
	images [][]byte
	err    error
}

func (f *fakeRasterizer) Rasterize(path string, dpi int) ([][]byte, error) {
	return f.images, f.err
}

func makeWord(text string, left, top int, conf float64) ocr.Word {
	return ocr.Word{Text: text, Left: left, Top: top, Width: 40, Height: 20, Confidence: conf}
}

// gridWords lays out a clean 2x2 grid that the extractor detects as a table.
func gridWords() []ocr.Word {
	return []ocr.Word{
		makeWord("A", 10, 100, 95),
		makeWord("B", 200, 100, 95),
		makeWord("C", 10, 200, 95),
		makeWord("D", 200, 200, 95),
	}
}

const legibleText = "The quick brown fox jumps over the lazy dog near the riverbank."

func TestProcess_LegiblePageWithTable(t *testing.T) {
	engine := &fakeEngine{pages: map[string]fakePage{
		"img-1": {text: legibleText, words: gridWords()},
	}}

	result, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{images: [][]byte{[]byte("img-1")}}).
		WithEngine(engine).
		Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(result.Pages) != 1 {
		t.Fatalf("expected 1 page result, got %d", len(result.Pages))
	}

	page := result.Pages[0]
	if page.Page != 1 {
		t.Errorf("page number = %d, want 1", page.Page)
	}
	if !page.Legible {
		t.Error("expected page to be legible")
	}
	if page.Text != legibleText {
		t.Errorf("page text = %q, want %q", page.Text, legibleText)
	}
	if !page.HasTable {
		t.Fatal("expected a table on the page")
	}

	want := [][]string{{"A", "B"}, {"C", "D"}}
	if !reflect.DeepEqual(page.Table.Rows, want) {
		t.Errorf("table rows = %v, want %v", page.Table.Rows, want)
	}
}

func TestProcess_IllegiblePageSkipsTables(t *testing.T) {
	engine := &fakeEngine{pages: map[string]fakePage{
		"img-1": {text: strings.Repeat("x", 49), words: gridWords()},
	}}

	result, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{images: [][]byte{[]byte("img-1")}}).
		WithEngine(engine).
		Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	page := result.Pages[0]
	if page.Legible {
		t.Error("expected page to be illegible at 49 characters")
	}
	if page.Text != "" {
		t.Errorf("illegible page text = %q, want empty", page.Text)
	}
	if page.HasTable {
		t.Error("illegible page should never report a table")
	}
	if len(engine.wordsCalls) != 0 {
		t.Errorf("word-level OCR ran on an illegible page: %v", engine.wordsCalls)
	}
}

func TestProcess_PageErrorDoesNotAbortDocument(t *testing.T) {
	ocrErr := errors.New("engine failure")
	engine := &fakeEngine{pages: map[string]fakePage{
		"img-1": {textErr: ocrErr},
		"img-2": {text: legibleText},
	}}

	result, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{images: [][]byte{[]byte("img-1"), []byte("img-2")}}).
		WithEngine(engine).
		Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.Pages[0].Err == nil {
		t.Error("expected page 1 to record its OCR error")
	}
	if result.Pages[0].Legible {
		t.Error("failed page should be reported illegible")
	}
	if !result.Pages[1].Legible {
		t.Error("page 2 should still be processed after page 1 failed")
	}
}

func TestProcess_WordErrorKeepsPageText(t *testing.T) {
	engine := &fakeEngine{pages: map[string]fakePage{
		"img-1": {text: legibleText, wordsErr: errors.New("boxes unavailable")},
	}}

	result, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{images: [][]byte{[]byte("img-1")}}).
		WithEngine(engine).
		Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	page := result.Pages[0]
	if !page.Legible || page.Text != legibleText {
		t.Error("page text should survive a word-level OCR failure")
	}
	if page.Err == nil {
		t.Error("expected the word-level failure to be recorded")
	}
	if page.HasTable {
		t.Error("no table can be extracted without word tokens")
	}
}

func TestProcess_RasterizerErrorIsFatal(t *testing.T) {
	_, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{err: errors.New("pdftoppm not found")}).
		WithEngine(&fakeEngine{}).
		Process()
	if err == nil {
		t.Fatal("expected a document-level error from a failed rasterization")
	}
}

func TestProcess_MissingInput(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png")).
		WithEngine(&fakeEngine{}).
		Process()
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}

	_, err = Open("").WithEngine(&fakeEngine{}).Process()
	if err == nil {
		t.Fatal("expected an error for an empty filename")
	}
}

func TestProcess_PageSelection(t *testing.T) {
	engine := &fakeEngine{pages: map[string]fakePage{
		"img-1": {text: legibleText},
		"img-2": {text: legibleText},
		"img-3": {text: legibleText},
	}}

	result, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{images: [][]byte{[]byte("img-1"), []byte("img-2"), []byte("img-3")}}).
		WithEngine(engine).
		Pages(2).
		Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(result.Pages) != 1 || result.Pages[0].Page != 2 {
		t.Errorf("expected only page 2, got %+v", result.Pages)
	}
}

func TestSelectPages(t *testing.T) {
	tests := []struct {
		name      string
		pages     []int
		pageCount int
		want      []int
	}{
		{"all pages by default", nil, 3, []int{1, 2, 3}},
		{"duplicates collapse", []int{2, 2, 1}, 3, []int{2, 1}},
		{"out of range dropped", []int{0, 2, 99}, 3, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{pages: tt.pages}
			got := p.selectPages(tt.pageCount)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("selectPages(%d) = %v, want %v", tt.pageCount, got, tt.want)
			}
		})
	}
}

func TestProcess_ParallelPreservesPageOrder(t *testing.T) {
	pages := map[string]fakePage{}
	var images [][]byte
	texts := []string{
		legibleText + " one",
		legibleText + " two",
		legibleText + " three",
		legibleText + " four",
	}
	for i, text := range texts {
		img := []byte{byte('a' + i)}
		images = append(images, img)
		pages[string(img)] = fakePage{text: text}
	}

	result, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{images: images}).
		WithEngine(&fakeEngine{pages: pages}).
		Workers(2).
		Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i, page := range result.Pages {
		if page.Page != i+1 {
			t.Errorf("result slot %d holds page %d", i, page.Page)
		}
		if page.Text != texts[i] {
			t.Errorf("page %d text = %q, want %q", page.Page, page.Text, texts[i])
		}
	}
}

func TestProcess_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{pages: map[string]fakePage{
		"img-1": {text: legibleText, words: gridWords()},
		"img-2": {text: "too short"},
	}}

	result, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{images: [][]byte{[]byte("img-1"), []byte("img-2")}}).
		WithEngine(engine).
		OutputDir(dir).
		Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.LegibleCount() != 1 {
		t.Errorf("legible count = %d, want 1", result.LegibleCount())
	}

	text, err := os.ReadFile(filepath.Join(dir, "page_1.txt"))
	if err != nil {
		t.Fatalf("page_1.txt not written: %v", err)
	}
	if string(text) != legibleText {
		t.Errorf("page_1.txt = %q, want %q", text, legibleText)
	}

	csv, err := os.ReadFile(filepath.Join(dir, "tables", "page_1_table.csv"))
	if err != nil {
		t.Fatalf("page_1_table.csv not written: %v", err)
	}
	wantCSV := "Col1,Col2\nA,B\nC,D\n"
	if string(csv) != wantCSV {
		t.Errorf("page_1_table.csv = %q, want %q", csv, wantCSV)
	}

	if _, err := os.Stat(filepath.Join(dir, "page_2.txt")); !os.IsNotExist(err) {
		t.Error("illegible page should not produce a text artifact")
	}
}

func TestConfigMethodsReturnNewPipeline(t *testing.T) {
	base := Open("scan.pdf")
	modified := base.DPI(72).Confidence(50).Pages(1, 2)

	if base.settings.DPI != raster.DefaultDPI {
		t.Errorf("base DPI mutated to %d", base.settings.DPI)
	}
	if base.pages != nil {
		t.Errorf("base page selection mutated to %v", base.pages)
	}
	if modified.settings.DPI != 72 || modified.settings.ConfidenceThreshold != 50 {
		t.Error("chained configuration not applied")
	}
	if !reflect.DeepEqual(modified.pages, []int{1, 2}) {
		t.Errorf("modified pages = %v, want [1 2]", modified.pages)
	}
}

func TestProcess_DoesNotCloseInjectedEngine(t *testing.T) {
	engine := &fakeEngine{pages: map[string]fakePage{
		"img-1": {text: legibleText},
	}}

	_, err := Open("scan.pdf").
		WithRasterizer(&fakeRasterizer{images: [][]byte{[]byte("img-1")}}).
		WithEngine(engine).
		Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if engine.closed {
		t.Error("pipeline closed an injected engine")
	}
}

func TestMust(t *testing.T) {
	if got := Must("value", nil); got != "value" {
		t.Errorf("Must returned %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must did not panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}
