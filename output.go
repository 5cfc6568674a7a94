package scantab

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsawler/scantab/hocr"
	"github.com/tsawler/scantab/ocr"
	"github.com/tsawler/scantab/raster"
)

// writeArtifacts writes per-page output files: page_N.txt for each legible
// page, tables/page_N_table.csv for each detected table, and page_N.hocr
// when hOCR output is enabled.
func writeArtifacts(dir string, result *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tablesDir := filepath.Join(dir, "tables")

	for _, page := range result.Pages {
		if page.Legible && page.Text != "" {
			path := filepath.Join(dir, fmt.Sprintf("page_%d.txt", page.Page))
			if err := os.WriteFile(path, []byte(page.Text), 0o644); err != nil {
				return fmt.Errorf("failed to write page text: %w", err)
			}
		}

		if page.HOCR != "" {
			path := filepath.Join(dir, fmt.Sprintf("page_%d.hocr", page.Page))
			if err := os.WriteFile(path, []byte(page.HOCR), 0o644); err != nil {
				return fmt.Errorf("failed to write page hOCR: %w", err)
			}
		}

		if page.HasTable {
			if err := os.MkdirAll(tablesDir, 0o755); err != nil {
				return fmt.Errorf("failed to create tables directory: %w", err)
			}
			path := filepath.Join(tablesDir, fmt.Sprintf("page_%d_table.csv", page.Page))
			if err := os.WriteFile(path, []byte(page.Table.ToCSV()), 0o644); err != nil {
				return fmt.Errorf("failed to write page table: %w", err)
			}
		}
	}

	return nil
}

// renderHOCR builds a single-page hOCR document from the page's word
// tokens. Rendering failures are not worth failing the page over; the
// artifact is simply omitted.
func (p *Pipeline) renderHOCR(pageNum int, image []byte, words []ocr.Word) string {
	width, height, err := raster.Dimensions(image)
	if err != nil {
		return ""
	}

	doc := &hocr.Document{
		Title:    filepath.Base(p.filename),
		Language: p.settings.Language,
		Pages: []hocr.Page{
			hocr.PageFromTokens(pageNum, fmt.Sprintf("page-%d.png", pageNum), width, height, words),
		},
	}

	out, err := hocr.Generate(doc)
	if err != nil {
		return ""
	}
	return out
}
