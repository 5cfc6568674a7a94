package scantab

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/scantab/legibility"
	"github.com/tsawler/scantab/raster"
	"github.com/tsawler/scantab/tables"
)

// Settings holds pipeline configuration. The zero value is not useful; start
// from DefaultSettings or LoadSettings.
type Settings struct {
	// DPI is the rasterization resolution for PDF input
	DPI int `yaml:"dpi"`

	// Language is the Tesseract language spec (e.g. "eng", "eng+fra")
	Language string `yaml:"language"`

	// ConfidenceThreshold is the minimum OCR confidence (exclusive) for a
	// token to participate in table extraction
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// ColumnTolerance is the pixel tolerance for clustering token left
	// edges into one table column
	ColumnTolerance float64 `yaml:"column_tolerance"`

	// RowGapFactor is the fraction of a token's glyph height the vertical
	// position must drop by to start a new table row
	RowGapFactor float64 `yaml:"row_gap_factor"`

	// LegibilityMinLength is the minimum cleaned-text length in bytes for
	// a page to be considered legible
	LegibilityMinLength int `yaml:"legibility_min_length"`

	// Workers is the number of pages processed concurrently; 1 means
	// strictly sequential processing
	Workers int `yaml:"workers"`

	// OutputDir, when non-empty, receives per-page artifacts: page_N.txt
	// for legible pages and tables/page_N_table.csv for detected tables
	OutputDir string `yaml:"output_dir"`

	// WriteHOCR additionally emits a page_N.hocr artifact per legible page
	WriteHOCR bool `yaml:"write_hocr"`
}

// DefaultSettings returns the default pipeline configuration.
func DefaultSettings() Settings {
	return Settings{
		DPI:                 raster.DefaultDPI,
		Language:            "eng",
		ConfidenceThreshold: 70,
		ColumnTolerance:     15,
		RowGapFactor:        0.8,
		LegibilityMinLength: legibility.DefaultMinLength,
		Workers:             1,
	}
}

// LoadSettings reads settings from a YAML file. Keys absent from the file
// keep their default values.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return settings, nil
}

// tableConfig maps settings onto the table extractor's configuration.
func (s Settings) tableConfig() tables.Config {
	config := tables.DefaultConfig()
	config.ConfidenceThreshold = s.ConfidenceThreshold
	config.ColumnTolerance = s.ColumnTolerance
	config.RowGapFactor = s.RowGapFactor
	return config
}
