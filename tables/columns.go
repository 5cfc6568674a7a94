package tables

import (
	"math"
	"sort"

	"github.com/tsawler/scantab/ocr"
)

// columnAnchor is a growing estimate of one column's horizontal position.
type columnAnchor struct {
	// Running mean of the left edges merged into this anchor
	center float64

	// Number of tokens merged so far
	count int
}

// inferColumns clusters token left edges into a sorted, deduplicated set of
// column center positions. Tokens must already be in reading order.
//
// The clustering is a greedy single pass: the first existing anchor within
// ColumnTolerance of a token's left edge absorbs it, updating the anchor
// center to the running mean of all absorbed edges. Tokens matching no anchor
// open a new one. First match wins and tokens are never reassigned, so the
// result depends on the reading-order sort; that order dependence is what
// keeps the pass deterministic.
func (e *Extractor) inferColumns(words []ocr.Word) []float64 {
	var anchors []columnAnchor

	for _, w := range words {
		left := float64(w.Left)
		matched := false
		for i := range anchors {
			if math.Abs(anchors[i].center-left) <= e.config.ColumnTolerance {
				anchors[i].center = (anchors[i].center*float64(anchors[i].count) + left) / float64(anchors[i].count+1)
				anchors[i].count++
				matched = true
				break
			}
		}
		if !matched {
			anchors = append(anchors, columnAnchor{center: left, count: 1})
		}
	}

	// Anchors drift toward each other while merging. Snapping each center
	// down to the tolerance grid collapses anchors that ended up close
	// together; the survivors become the final column positions.
	seen := make(map[float64]struct{}, len(anchors))
	centers := make([]float64, 0, len(anchors))
	for _, a := range anchors {
		q := math.Floor(a.center/e.config.ColumnTolerance) * e.config.ColumnTolerance
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		centers = append(centers, q)
	}
	sort.Float64s(centers)

	return centers
}

// nearestColumn returns the index of the center closest to the given left
// edge. Ties go to the first (leftmost) center.
func nearestColumn(centers []float64, left int) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centers {
		d := math.Abs(c - float64(left))
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
