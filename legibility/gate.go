// Package legibility classifies OCR page text as usable or noise.
//
// Scanned documents routinely contain pages the OCR engine cannot read:
// photographs, blank separators, handwriting, degraded print. Rather than
// inspect recognition confidence, the gate uses a blunt but effective proxy:
// a page that yields almost no text after cleanup is treated as illegible,
// and downstream steps (table extraction, artifact output) skip it.
package legibility

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultMinLength is the default minimum cleaned-text length, in bytes,
// for a page to count as legible.
const DefaultMinLength = 50

// Clean collapses all whitespace runs in raw OCR output to single spaces,
// trims the result, and applies Unicode NFC normalization so that visually
// identical recognitions compare equal.
func Clean(raw string) string {
	return norm.NFC.String(strings.Join(strings.Fields(raw), " "))
}

// Gate separates legible from illegible pages by cleaned-text length.
type Gate struct {
	// MinLength is the minimum byte length of cleaned text for a page
	// to be considered legible
	MinLength int
}

// DefaultGate returns a gate with the default threshold.
func DefaultGate() Gate {
	return Gate{MinLength: DefaultMinLength}
}

// Legible reports whether cleaned page text passes the length threshold.
// Text shorter than MinLength is illegible; text of exactly MinLength passes.
func (g Gate) Legible(cleaned string) bool {
	return len(cleaned) >= g.MinLength
}
