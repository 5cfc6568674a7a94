// Package hocr reads and writes hOCR, the open HTML-based format for OCR
// output with positional metadata.
//
// The pipeline uses hOCR as its interchange format for word tokens: pages
// recognized by the OCR engine can be saved as hOCR artifacts, and existing
// hOCR files (from Tesseract or any conforming engine) can be parsed back
// into tokens and fed to table extraction without re-running OCR.
package hocr

import (
	"fmt"

	"github.com/tsawler/scantab/ocr"
)

// BoundingBox is an hOCR bbox: pixel coordinates of the top-left and
// bottom-right corners, origin at the top-left of the page image.
type BoundingBox struct {
	X1, Y1, X2, Y2 int
}

// Word is a recognized word with bounding box.
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string      // Unique identifier
	Text       string      // The actual text content
	BBox       BoundingBox // Word coordinates
	Confidence float64     // Recognition confidence (0-100)
}

// Page is one page of recognized text.
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string // Unique identifier
	PageNumber int    // Page number in document, 1-based
	Image      string // Source image filename
	Width      int    // Page image width in pixels
	Height     int    // Page image height in pixels
	Words      []Word // Recognized words on the page
}

// Document represents an entire hOCR document.
type Document struct {
	Title    string
	Language string
	Pages    []Page
}

// PageFromTokens builds an hOCR page from OCR word tokens.
func PageFromTokens(number int, image string, width, height int, tokens []ocr.Word) Page {
	page := Page{
		ID:         fmt.Sprintf("page_%d", number),
		PageNumber: number,
		Image:      image,
		Width:      width,
		Height:     height,
	}
	for i, t := range tokens {
		page.Words = append(page.Words, Word{
			ID:   fmt.Sprintf("word_%d_%d", number, i+1),
			Text: t.Text,
			BBox: BoundingBox{
				X1: t.Left,
				Y1: t.Top,
				X2: t.Left + t.Width,
				Y2: t.Top + t.Height,
			},
			Confidence: t.Confidence,
		})
	}
	return page
}

// PPageNo returns the page number in hOCR's zero-based ppageno convention.
func (p Page) PPageNo() int {
	return p.PageNumber - 1
}

// Tokens converts the page's words back into OCR word tokens.
func (p Page) Tokens() []ocr.Word {
	tokens := make([]ocr.Word, 0, len(p.Words))
	for _, w := range p.Words {
		tokens = append(tokens, ocr.Word{
			Text:       w.Text,
			Left:       w.BBox.X1,
			Top:        w.BBox.Y1,
			Width:      w.BBox.X2 - w.BBox.X1,
			Height:     w.BBox.Y2 - w.BBox.Y1,
			Confidence: w.Confidence,
		})
	}
	return tokens
}
