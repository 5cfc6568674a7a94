// Package scantab converts scanned PDF documents into page-level text and,
// heuristically, tabular data, using OCR.
//
// Basic usage:
//
//	result, err := scantab.Open("scan.pdf").Process()
//	if err != nil {
//	    // handle error
//	}
//	for _, page := range result.Pages {
//	    fmt.Printf("page %d: legible=%v table=%v\n", page.Page, page.Legible, page.HasTable)
//	}
//
// With options:
//
//	result, err := scantab.Open("report.pdf").
//	    DPI(300).
//	    Language("eng").
//	    OutputDir("out").
//	    Process()
//
// Each page is OCR'd independently: whole-page text feeds a legibility gate,
// and legible pages additionally go through word-level recognition and
// heuristic table reconstruction (see the tables package). OCR requires the
// "ocr" build tag and a system Tesseract installation; rasterization requires
// poppler's pdftoppm.
package scantab

import (
	"fmt"

	"github.com/tsawler/scantab/hocr"
	"github.com/tsawler/scantab/tables"
)

// Open prepares a processing pipeline for a document and returns it for
// fluent configuration. The document is not touched until Process is called.
//
// Example:
//
//	result, err := scantab.Open("scan.pdf").Process()
func Open(filename string) *Pipeline {
	return &Pipeline{
		filename: filename,
		settings: DefaultSettings(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := scantab.Must(scantab.Open("scan.pdf").Process())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// TablesFromHOCR runs table extraction over the pages of an existing hOCR
// document (for example Tesseract output saved earlier), without re-running
// OCR. It returns the detected tables keyed by page number; pages without a
// detected table are absent from the map.
func TablesFromHOCR(data []byte, config tables.Config) (map[int]*tables.Table, error) {
	doc, err := hocr.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	ext := tables.NewExtractor(config)
	result := make(map[int]*tables.Table)
	for _, page := range doc.Pages {
		if table, ok := ext.Extract(page.Tokens()); ok {
			result[page.PageNumber] = table
		}
	}
	return result, nil
}
