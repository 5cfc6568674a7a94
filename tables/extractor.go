package tables

import (
	"sort"
	"strings"

	"github.com/tsawler/scantab/ocr"
)

// token is a word that survived filtering, annotated with its column index.
type token struct {
	ocr.Word
	col int
}

// Extractor reconstructs tables from OCR word tokens.
type Extractor struct {
	config Config
}

// NewExtractor creates an extractor with the given configuration.
func NewExtractor(config Config) *Extractor {
	return &Extractor{config: config}
}

// Config returns the extractor's configuration.
func (e *Extractor) Config() Config {
	return e.config
}

// Extract attempts to reconstruct a table from the page's word tokens.
// It returns the table and true on success, or nil and false when the tokens
// do not resolve to at least MinRows x MinCols of grid structure. Absence is
// a normal outcome, not an error: blank pages, prose pages, and layouts the
// heuristic cannot resolve all report no table.
func (e *Extractor) Extract(words []ocr.Word) (*Table, bool) {
	filtered := e.filter(words)
	if len(filtered) == 0 {
		return nil, false
	}

	sortReadingOrder(filtered)

	centers := e.inferColumns(filtered)
	if len(centers) < e.config.MinCols {
		return nil, false
	}

	// Column assignment is a second, independent pass: each token goes to
	// the nearest final center, not the anchor that absorbed it during
	// clustering.
	tokens := make([]token, len(filtered))
	for i, w := range filtered {
		tokens[i] = token{Word: w, col: nearestColumn(centers, w.Left)}
	}

	grid := e.assemble(e.segmentRows(tokens), len(centers))
	if len(grid) < e.config.MinRows || len(grid) == 0 || len(grid[0]) < e.config.MinCols {
		return nil, false
	}

	return &Table{Rows: grid}, true
}

// filter drops tokens at or below the confidence threshold and tokens whose
// text is blank after trimming.
func (e *Extractor) filter(words []ocr.Word) []ocr.Word {
	result := make([]ocr.Word, 0, len(words))
	for _, w := range words {
		if w.Confidence <= e.config.ConfidenceThreshold {
			continue
		}
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		result = append(result, w)
	}
	return result
}

// sortReadingOrder sorts tokens top-to-bottom, then left-to-right,
// approximating natural reading flow within a roughly-aligned table.
func sortReadingOrder(words []ocr.Word) {
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].Top != words[j].Top {
			return words[i].Top < words[j].Top
		}
		return words[i].Left < words[j].Left
	})
}

// assemble maps each row's tokens into cells. Multiple tokens landing in the
// same cell are joined with a single space in reading order. Every row is
// right-padded with empty strings to the widest row observed, so the result
// is always rectangular.
func (e *Extractor) assemble(rows [][]token, cols int) [][]string {
	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, cols)
		for _, t := range row {
			if t.col < 0 || t.col >= cols {
				continue
			}
			if cells[t.col] != "" {
				cells[t.col] += " " + t.Text
			} else {
				cells[t.col] = t.Text
			}
		}
		grid = append(grid, cells)
	}

	maxCols := 0
	for _, row := range grid {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	for i := range grid {
		for len(grid[i]) < maxCols {
			grid[i] = append(grid[i], "")
		}
	}

	return grid
}
