package ingest

import (
	"strconv"
	"strings"
)

// headerScanLimit bounds how deep DetectHeaderRow looks. Banner/logo rows sit
// near the top of vendor files; anything past this is data.
const headerScanLimit = 20

// DetectHeaderRow picks the most likely header row and returns its 1-based
// index. A row scores well when most of its cells are non-empty, non-numeric,
// and distinct - data rows are full of numbers and repeats, banner rows are
// mostly empty. Earliest row wins ties. Best-effort: the caller lets the user
// override the result. Returns 1 when rows is empty.
func DetectHeaderRow(rows [][]string) int {
	best := 1
	bestScore := -1.0

	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		score := scoreHeaderRow(rows[i])
		if score > bestScore {
			bestScore = score
			best = i + 1
		}
	}
	return best
}

func scoreHeaderRow(row []string) float64 {
	if len(row) == 0 {
		return 0
	}

	nonEmpty := 0
	nonNumeric := 0
	distinct := make(map[string]bool)
	for _, cell := range row {
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		nonEmpty++
		if !isNumeric(v) {
			nonNumeric++
		}
		distinct[strings.ToLower(v)] = true
	}
	if nonEmpty == 0 {
		return 0
	}

	total := float64(len(row))
	fillScore := float64(nonEmpty) / total
	textScore := float64(nonNumeric) / float64(nonEmpty)
	distinctScore := float64(len(distinct)) / float64(nonEmpty)

	// Weight the cell count too: a banner row with one dense cell should not
	// beat a real header with seven.
	widthBonus := float64(nonEmpty) / 10.0
	if widthBonus > 1 {
		widthBonus = 1
	}

	return fillScore + textScore + distinctScore + widthBonus
}

func isNumeric(s string) bool {
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
