package ingest

import "strings"

// AutoMap suggests a field -> column mapping for the given header columns.
// Two greedy passes: exact match against each field's normalized variation
// set, then substring containment in either direction over the columns still
// unused. A column is consumed by at most one field, so two required fields
// can never silently share a source column. Deterministic for a given
// (columns, schema) pair; fields with no match are simply absent from the
// result and the caller resolves them manually.
func AutoMap(columns []string, schema []FieldSpec) map[string]string {
	mapping := make(map[string]string)
	used := make(map[int]bool)

	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = Normalize(col)
	}

	// Pass 1: exact variation match.
	for _, field := range schema {
		for i, col := range normalized {
			if used[i] || col == "" {
				continue
			}
			if matchesExact(col, field) {
				mapping[field.Key] = columns[i]
				used[i] = true
				break
			}
		}
	}

	// Pass 2: partial match for whatever is left.
	for _, field := range schema {
		if _, ok := mapping[field.Key]; ok {
			continue
		}
		for i, col := range normalized {
			if used[i] || col == "" {
				continue
			}
			if matchesPartial(col, field) {
				mapping[field.Key] = columns[i]
				used[i] = true
				break
			}
		}
	}

	return mapping
}

func matchesExact(col string, field FieldSpec) bool {
	for _, v := range field.Variations {
		if col == v {
			return true
		}
	}
	return false
}

func matchesPartial(col string, field FieldSpec) bool {
	for _, v := range field.Variations {
		if strings.Contains(col, v) || strings.Contains(v, col) {
			return true
		}
	}
	return false
}
