package scantab

import (
	"fmt"
	"os"
	"sync"

	"github.com/tsawler/scantab/format"
	"github.com/tsawler/scantab/legibility"
	"github.com/tsawler/scantab/ocr"
	"github.com/tsawler/scantab/raster"
	"github.com/tsawler/scantab/tables"
)

// Engine is the OCR collaborator consumed by the pipeline: whole-page text
// for the legibility gate, word tokens for table extraction. The default
// engine is the Tesseract client from the ocr package; tests and callers
// with their own recognition backend can inject an implementation via
// WithEngine.
type Engine interface {
	PageText(image []byte) (string, error)
	Words(image []byte) ([]ocr.Word, error)
	Close() error
}

// Pipeline processes one document. Each configuration method returns a new
// Pipeline instance, making it safe for concurrent use and allowing method
// chaining.
type Pipeline struct {
	// Source
	filename string

	// Configuration
	settings Settings

	// Page selection (1-indexed); nil means all pages
	pages []int

	// Injected collaborators (nil means defaults)
	engine     Engine
	rasterizer raster.Rasterizer
}

// clone creates a copy of the Pipeline with a deep copy of the page
// selection. This ensures immutability - each chain method returns a new
// instance.
func (p *Pipeline) clone() *Pipeline {
	newPipe := &Pipeline{
		filename:   p.filename,
		settings:   p.settings,
		engine:     p.engine,
		rasterizer: p.rasterizer,
	}
	if p.pages != nil {
		newPipe.pages = make([]int, len(p.pages))
		copy(newPipe.pages, p.pages)
	}
	return newPipe
}

// ============================================================================
// Configuration Methods (return new Pipeline instance)
// ============================================================================

// DPI sets the rasterization resolution for PDF input.
func (p *Pipeline) DPI(dpi int) *Pipeline {
	newPipe := p.clone()
	newPipe.settings.DPI = dpi
	return newPipe
}

// Language sets the Tesseract language spec (e.g. "eng", "eng+fra").
func (p *Pipeline) Language(lang string) *Pipeline {
	newPipe := p.clone()
	newPipe.settings.Language = lang
	return newPipe
}

// Confidence sets the minimum OCR confidence (exclusive) for a token to
// participate in table extraction.
func (p *Pipeline) Confidence(threshold float64) *Pipeline {
	newPipe := p.clone()
	newPipe.settings.ConfidenceThreshold = threshold
	return newPipe
}

// ColumnTolerance sets the pixel tolerance for clustering token left edges
// into one table column.
func (p *Pipeline) ColumnTolerance(tolerance float64) *Pipeline {
	newPipe := p.clone()
	newPipe.settings.ColumnTolerance = tolerance
	return newPipe
}

// RowGapFactor sets the fraction of a token's glyph height the vertical
// position must drop by to start a new table row.
func (p *Pipeline) RowGapFactor(factor float64) *Pipeline {
	newPipe := p.clone()
	newPipe.settings.RowGapFactor = factor
	return newPipe
}

// MinTextLength sets the minimum cleaned-text length in bytes for a page
// to be considered legible.
func (p *Pipeline) MinTextLength(length int) *Pipeline {
	newPipe := p.clone()
	newPipe.settings.LegibilityMinLength = length
	return newPipe
}

// Workers sets the number of pages processed concurrently. Pages are
// independent, so any value is safe; results are always collected in page
// order. The default is 1 (strictly sequential).
func (p *Pipeline) Workers(n int) *Pipeline {
	newPipe := p.clone()
	newPipe.settings.Workers = n
	return newPipe
}

// OutputDir sets the directory that receives per-page artifacts. An empty
// directory (the default) disables artifact output.
func (p *Pipeline) OutputDir(dir string) *Pipeline {
	newPipe := p.clone()
	newPipe.settings.OutputDir = dir
	return newPipe
}

// WriteHOCR enables per-page hOCR artifact output alongside text files.
func (p *Pipeline) WriteHOCR() *Pipeline {
	newPipe := p.clone()
	newPipe.settings.WriteHOCR = true
	return newPipe
}

// Pages restricts processing to the given pages (1-indexed).
// Multiple calls are cumulative.
func (p *Pipeline) Pages(pages ...int) *Pipeline {
	newPipe := p.clone()
	newPipe.pages = append(newPipe.pages, pages...)
	return newPipe
}

// WithSettings replaces the pipeline's settings wholesale.
func (p *Pipeline) WithSettings(settings Settings) *Pipeline {
	newPipe := p.clone()
	newPipe.settings = settings
	return newPipe
}

// WithEngine injects an OCR engine. The engine is shared by all workers and
// must be safe for concurrent use when Workers is greater than one; the
// pipeline does not close injected engines.
func (p *Pipeline) WithEngine(engine Engine) *Pipeline {
	newPipe := p.clone()
	newPipe.engine = engine
	return newPipe
}

// WithRasterizer injects a rasterizer for PDF input. The default shells out
// to poppler's pdftoppm.
func (p *Pipeline) WithRasterizer(r raster.Rasterizer) *Pipeline {
	newPipe := p.clone()
	newPipe.rasterizer = r
	return newPipe
}

// ============================================================================
// Processing
// ============================================================================

// Process runs the pipeline: rasterize (for PDF input), OCR each page, gate
// legibility, and attempt table extraction on legible pages. Document-level
// failures (missing or corrupt input, rasterizer unavailable, OCR engine
// unavailable) return an error with no partial results. Page-level OCR
// failures do not: the page is reported illegible with empty text and
// processing continues.
//
// When OutputDir is set, per-page artifacts are written before returning.
func (p *Pipeline) Process() (*Result, error) {
	images, err := p.pageImages()
	if err != nil {
		return nil, err
	}

	jobs := p.selectPages(len(images))
	results := make([]PageResult, len(jobs))

	workers := p.settings.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	if len(jobs) > 0 {
		engines, cleanup, err := p.engines(workers)
		if err != nil {
			return nil, fmt.Errorf("OCR engine unavailable: %w", err)
		}
		defer cleanup()

		if workers == 1 {
			for i, pageNum := range jobs {
				results[i] = p.processPage(engines[0], pageNum, images[pageNum-1])
			}
		} else {
			p.processParallel(engines, jobs, images, results)
		}
	}

	result := &Result{Source: p.filename, Pages: results}

	if p.settings.OutputDir != "" {
		if err := writeArtifacts(p.settings.OutputDir, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// processParallel fans pages out to one goroutine per engine. Results land
// in their job slot, so output order is page order regardless of completion
// order.
func (p *Pipeline) processParallel(engines []Engine, jobs []int, images [][]byte, results []PageResult) {
	type job struct {
		slot    int
		pageNum int
	}

	jobCh := make(chan job)
	var wg sync.WaitGroup

	for _, eng := range engines {
		wg.Add(1)
		go func(eng Engine) {
			defer wg.Done()
			for j := range jobCh {
				results[j.slot] = p.processPage(eng, j.pageNum, images[j.pageNum-1])
			}
		}(eng)
	}

	for i, pageNum := range jobs {
		jobCh <- job{slot: i, pageNum: pageNum}
	}
	close(jobCh)
	wg.Wait()
}

// processPage runs the per-page steps in order: whole-page OCR, legibility
// gate, word-level OCR, table extraction. Failures here are page-local and
// never abort the document.
func (p *Pipeline) processPage(eng Engine, pageNum int, image []byte) PageResult {
	result := PageResult{Page: pageNum}

	raw, err := eng.PageText(image)
	if err != nil {
		result.Err = fmt.Errorf("page %d OCR failed: %w", pageNum, err)
		return result
	}

	cleaned := legibility.Clean(raw)
	gate := legibility.Gate{MinLength: p.settings.LegibilityMinLength}
	if !gate.Legible(cleaned) {
		// Illegible pages record empty text and skip table extraction;
		// word-level OCR on them produces garbage grids
		return result
	}
	result.Legible = true
	result.Text = cleaned

	words, err := eng.Words(image)
	if err != nil {
		result.Err = fmt.Errorf("page %d word OCR failed: %w", pageNum, err)
		return result
	}

	if p.settings.WriteHOCR {
		result.HOCR = p.renderHOCR(pageNum, image, words)
	}

	if table, ok := tables.NewExtractor(p.settings.tableConfig()).Extract(words); ok {
		result.HasTable = true
		result.Table = table
	}

	return result
}

// pageImages acquires the ordered page images for the input document.
func (p *Pipeline) pageImages() ([][]byte, error) {
	if p.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}

	switch f := format.Detect(p.filename); {
	case f == format.PDF:
		return p.rasterize()
	case f.IsImage():
		return p.singleImage()
	}

	// Unknown extension: sniff magic bytes
	data, err := os.ReadFile(p.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	switch f := format.DetectFromMagic(data); {
	case f == format.PDF:
		return p.rasterize()
	case f.IsImage():
		return [][]byte{data}, nil
	}
	return nil, fmt.Errorf("unsupported input format: %s", p.filename)
}

func (p *Pipeline) rasterize() ([][]byte, error) {
	r := p.rasterizer
	if r == nil {
		r = raster.NewPoppler()
	}
	images, err := r.Rasterize(p.filename, p.settings.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize document: %w", err)
	}
	return images, nil
}

func (p *Pipeline) singleImage() ([][]byte, error) {
	data, err := os.ReadFile(p.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read page image: %w", err)
	}
	return [][]byte{data}, nil
}

// selectPages returns the 1-based page numbers to process, in order.
func (p *Pipeline) selectPages(pageCount int) []int {
	if p.pages == nil {
		all := make([]int, pageCount)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}

	seen := make(map[int]struct{}, len(p.pages))
	var selected []int
	for _, n := range p.pages {
		if n < 1 || n > pageCount {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		selected = append(selected, n)
	}
	return selected
}

// engines returns one engine per worker plus a cleanup function. Injected
// engines are shared and never closed by the pipeline; default engines are
// created per worker and closed by cleanup.
func (p *Pipeline) engines(n int) ([]Engine, func(), error) {
	list := make([]Engine, 0, n)

	if p.engine != nil {
		for i := 0; i < n; i++ {
			list = append(list, p.engine)
		}
		return list, func() {}, nil
	}

	cleanup := func() {
		for _, eng := range list {
			eng.Close()
		}
	}
	for i := 0; i < n; i++ {
		eng, err := newTesseractEngine(p.settings.Language)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		list = append(list, eng)
	}
	return list, cleanup, nil
}

// newTesseractEngine creates the default OCR engine. Without the "ocr"
// build tag this returns ocr.ErrOCRNotEnabled.
func newTesseractEngine(lang string) (Engine, error) {
	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}
