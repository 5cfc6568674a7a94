// Package tables reconstructs tabular data from OCR word tokens.
//
// Scanned pages carry no drawn gridlines or text objects, only recognized
// words with bounding boxes and confidence scores. This package infers a
// row/column grid from those tokens with no a-priori knowledge of the table
// geometry:
//
//  1. Tokens are filtered by confidence and sorted into reading order
//     (top-to-bottom, then left-to-right).
//  2. Column inference greedily clusters token left edges into column
//     anchors, then assigns every token to its nearest anchor.
//  3. Row segmentation splits the token stream wherever a token's vertical
//     position drops by more than a fraction of its own glyph height.
//  4. Grid assembly merges same-cell tokens and pads rows to a rectangle.
//
// The result is either a rectangular [Table] or an absence verdict: anything
// that resolves to fewer than two rows or two columns is reported as "no
// table", favoring false negatives over noisy false positives.
//
// # Configuration
//
// Behavior is controlled by [Config]:
//
//	config := tables.DefaultConfig()
//	config.ColumnTolerance = 20
//	ext := tables.NewExtractor(config)
//	table, ok := ext.Extract(words)
//
// The heuristic is deliberately approximate. It targets roughly left-aligned
// columns in scanned reports and does not handle rotated tables, spanning
// cells, or multi-region layouts.
package tables
