package scantab

import "github.com/tsawler/scantab/tables"

// PageResult is the per-page output record. It is created once during the
// pipeline pass and never mutated afterward.
type PageResult struct {
	// Page is the 1-based page number
	Page int

	// Text is the cleaned page text; empty for illegible pages
	Text string

	// Legible reports whether the page passed the legibility gate
	Legible bool

	// HasTable reports whether a table was reconstructed on this page
	HasTable bool

	// Table is the reconstructed table, nil when HasTable is false
	Table *tables.Table

	// HOCR is the rendered hOCR artifact for the page; empty unless
	// hOCR output was enabled
	HOCR string

	// Err records a page-local OCR failure. A non-nil Err means the page
	// was reported illegible because recognition failed, not because the
	// page lacked text. Page errors never abort the document.
	Err error
}

// Result is the outcome of processing one document.
type Result struct {
	// Source is the input path
	Source string

	// Pages holds one record per processed page, in page order
	Pages []PageResult
}

// LegibleCount returns the number of legible pages.
func (r *Result) LegibleCount() int {
	count := 0
	for _, p := range r.Pages {
		if p.Legible {
			count++
		}
	}
	return count
}

// IllegiblePages returns the page numbers that failed the legibility gate.
func (r *Result) IllegiblePages() []int {
	var pages []int
	for _, p := range r.Pages {
		if !p.Legible {
			pages = append(pages, p.Page)
		}
	}
	return pages
}

// TablePages returns the page numbers where a table was detected.
func (r *Result) TablePages() []int {
	var pages []int
	for _, p := range r.Pages {
		if p.HasTable {
			pages = append(pages, p.Page)
		}
	}
	return pages
}

// TableCount returns the number of pages with a detected table.
func (r *Result) TableCount() int {
	return len(r.TablePages())
}
