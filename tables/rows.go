package tables

// segmentRows partitions reading-ordered tokens into rows using vertical
// position gaps. A token starts a new row when its top edge sits more than
// RowGapFactor of its own glyph height below the current row's top. The
// height-relative threshold tolerates baseline jitter between words on the
// same printed line while still separating distinct lines.
func (e *Extractor) segmentRows(tokens []token) [][]token {
	if len(tokens) == 0 {
		return nil
	}

	var rows [][]token
	var current []token
	rowTop := tokens[0].Top

	for _, t := range tokens {
		if float64(t.Top) > float64(rowTop)+float64(t.Height)*e.config.RowGapFactor {
			if len(current) > 0 {
				rows = append(rows, current)
			}
			current = nil
			rowTop = t.Top
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	return rows
}
