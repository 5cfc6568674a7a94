package tables

// Config holds extractor configuration.
type Config struct {
	// Minimum OCR confidence (exclusive) for a token to participate
	ConfidenceThreshold float64

	// Tolerance in pixels for clustering token left edges into one column
	ColumnTolerance float64

	// Fraction of a token's glyph height the vertical position must drop
	// by before the token starts a new row
	RowGapFactor float64

	// Minimum rows for a valid table
	MinRows int

	// Minimum columns for a valid table
	MinCols int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 70,
		ColumnTolerance:     15,
		RowGapFactor:        0.8,
		MinRows:             2,
		MinCols:             2,
	}
}
