// scantab is a command-line tool for digitizing scanned documents.
//
// It rasterizes a scanned PDF (or takes a single page image), runs OCR on
// every page, classifies each page as legible or illegible, and attempts to
// reconstruct tabular data from the word layout of legible pages. Per-page
// text and CSV table artifacts are written to the output directory.
//
// Usage:
//
//	scantab -input scan.pdf [options]
//
// Options:
//
//	-input string       Path to a scanned PDF or a single page image (required)
//	-out string         Output directory for per-page artifacts (default "output")
//	-config string      Path to a YAML settings file
//	-dpi int            Rasterization resolution for PDF input
//	-lang string        Tesseract language spec, e.g. "eng" or "eng+fra"
//	-pages string       Comma-separated 1-based page numbers, e.g. "1,3,5"
//	-workers int        Number of pages processed concurrently
//	-min-text int       Minimum cleaned-text length for a legible page
//	-confidence float   Minimum OCR confidence for table tokens
//	-hocr               Also write a page_N.hocr artifact per legible page
//
// Building with OCR support requires the "ocr" build tag and a system
// Tesseract installation:
//
//	go build -tags ocr ./cmd/scantab
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/tsawler/scantab"
	"github.com/tsawler/scantab/ocr"
)

func main() {
	input := flag.String("input", "", "Path to a scanned PDF or a single page image")
	out := flag.String("out", "output", "Output directory for per-page artifacts")
	configPath := flag.String("config", "", "Path to a YAML settings file")
	dpi := flag.Int("dpi", 0, "Rasterization resolution for PDF input")
	lang := flag.String("lang", "", "Tesseract language spec")
	pagesSpec := flag.String("pages", "", "Comma-separated 1-based page numbers")
	workers := flag.Int("workers", 0, "Number of pages processed concurrently")
	minText := flag.Int("min-text", 0, "Minimum cleaned-text length for a legible page")
	confidence := flag.Float64("confidence", 0, "Minimum OCR confidence for table tokens")
	writeHOCR := flag.Bool("hocr", false, "Also write a page_N.hocr artifact per legible page")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(1)
	}

	settings := scantab.DefaultSettings()
	if *configPath != "" {
		loaded, err := scantab.LoadSettings(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}
		settings = loaded
	}

	// Flags set on the command line win over the settings file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dpi":
			settings.DPI = *dpi
		case "lang":
			settings.Language = *lang
		case "workers":
			settings.Workers = *workers
		case "min-text":
			settings.LegibilityMinLength = *minText
		case "confidence":
			settings.ConfidenceThreshold = *confidence
		}
	})
	settings.OutputDir = *out
	if *writeHOCR {
		settings.WriteHOCR = true
	}

	pipeline := scantab.Open(*input).WithSettings(settings)

	if *pagesSpec != "" {
		pages, err := parsePages(*pagesSpec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		pipeline = pipeline.Pages(pages...)
	}

	result, err := pipeline.Process()
	if err != nil {
		if errors.Is(err, ocr.ErrOCRNotEnabled) {
			fmt.Fprintln(os.Stderr, "Error: OCR support is not compiled in; rebuild with -tags ocr")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	printSummary(result)
}

// parsePages parses a comma-separated list of 1-based page numbers.
func parsePages(spec string) ([]int, error) {
	var pages []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page number %q", part)
		}
		pages = append(pages, n)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page numbers in %q", spec)
	}
	return pages, nil
}

func printSummary(result *scantab.Result) {
	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Page", "Legible", "Table", "Characters", "Note"})

	for _, page := range result.Pages {
		note := ""
		if page.Err != nil {
			note = page.Err.Error()
		}
		size := ""
		if page.HasTable {
			size = fmt.Sprintf("%dx%d", page.Table.RowCount(), page.Table.ColCount())
		}
		table.Append([]string{
			strconv.Itoa(page.Page),
			yesNo(page.Legible),
			size,
			strconv.Itoa(len(page.Text)),
			note,
		})
	}
	table.Render()

	fmt.Printf("\nPages processed:  %d\n", len(result.Pages))
	fmt.Printf("Legible pages:    %d\n", result.LegibleCount())
	fmt.Printf("Illegible pages:  %d\n", len(result.Pages)-result.LegibleCount())
	fmt.Printf("Tables detected:  %d\n", result.TableCount())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
