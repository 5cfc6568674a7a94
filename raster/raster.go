// Package raster converts PDF documents into per-page raster images.
//
// Rasterization is delegated to poppler's pdftoppm utility, which must be
// installed on the system (on Debian/Ubuntu: apt-get install poppler-utils).
// Before shelling out, the document is opened and validated with pdfcpu so
// that missing or corrupt files fail fast with a useful error instead of a
// cryptic exit status from the external binary.
package raster

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DefaultDPI is the default rasterization resolution. 300 DPI is the usual
// recommendation for OCR accuracy on scanned documents.
const DefaultDPI = 300

// Rasterizer converts a document into ordered page images.
type Rasterizer interface {
	// Rasterize renders every page of the document at the given resolution
	// and returns the encoded page images in page order, starting at page 1.
	// Any failure is fatal for the whole document; no partial results are
	// returned.
	Rasterize(path string, dpi int) ([][]byte, error)
}

// Poppler rasterizes PDFs by executing pdftoppm.
type Poppler struct {
	// Binary is the pdftoppm executable; empty means "pdftoppm" on $PATH
	Binary string
}

// NewPoppler returns a Poppler rasterizer using pdftoppm from $PATH.
func NewPoppler() *Poppler {
	return &Poppler{}
}

// Rasterize implements Rasterizer. Pages are rendered to PNG in a temporary
// directory which is removed before returning.
func (p *Poppler) Rasterize(path string, dpi int) ([][]byte, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	pageCount, err := inspectPDF(path)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "scantab-raster")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	binary := p.Binary
	if binary == "" {
		binary = "pdftoppm"
	}

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.Command(binary, "-png", "-r", strconv.Itoa(dpi), path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	paths, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	sortByPageNumber(paths)

	if len(paths) != pageCount {
		return nil, fmt.Errorf("rasterized %d pages, document has %d", len(paths), pageCount)
	}

	images := make([][]byte, 0, len(paths))
	for _, imgPath := range paths {
		data, err := os.ReadFile(imgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read page image: %w", err)
		}
		images = append(images, data)
	}

	return images, nil
}

// inspectPDF opens and validates the document with pdfcpu and returns its
// page count.
func inspectPDF(path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("document not found: %w", err)
	}

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}

	return ctx.PageCount, nil
}

// sortByPageNumber orders pdftoppm output files by their numeric page
// suffix. Poppler zero-pads page numbers so lexical order usually matches,
// but parsing the suffix guards against mixed-width names.
func sortByPageNumber(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		ni, oki := pageNumberSuffix(paths[i])
		nj, okj := pageNumberSuffix(paths[j])
		if oki && okj {
			return ni < nj
		}
		return paths[i] < paths[j]
	})
}

// pageNumberSuffix extracts N from a path of the form prefix-N.png.
func pageNumberSuffix(path string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
