package table

import (
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NotFound is the ColumnMap sentinel for a field whose header could not be
// resolved. Callers overlay legacy default indices for required fields.
const NotFound = -1

// Schema maps a logical field name to its acceptable header names, in
// priority order. Sheets are maintained by hand and headers get renamed or
// translated, so each field carries every spelling seen in the wild.
type Schema map[string][]string

// ColumnMap maps a logical field name to a resolved 0-based column index,
// or NotFound.
type ColumnMap map[string]int

// Col returns the resolved index for field, or NotFound.
func (m ColumnMap) Col(field string) int {
	if i, ok := m[field]; ok {
		return i
	}
	return NotFound
}

// Apply fills every unresolved field from defaults and returns m. Older
// sheets predate the header row entirely; their fixed write order is the
// source of truth for the fallback positions.
func (m ColumnMap) Apply(defaults ColumnMap) ColumnMap {
	for field, idx := range defaults {
		if m.Col(field) == NotFound {
			m[field] = idx
		}
	}
	return m
}

// MapHeaders resolves schema against a header row. Headers are normalized
// (NFKC so full-width CJK punctuation and letters compare equal to their
// half-width synonyms, then trimmed and lower-cased). For each field the
// candidates are tried in priority order with an exact match; only when no
// candidate matches exactly does a substring pass run, and that binding is
// logged since a contains-match can grab an unrelated header.
//
// The result is deterministic in (header, schema). Unresolvable fields map
// to NotFound; MapHeaders itself never fails.
func MapHeaders(header []string, schema Schema) ColumnMap {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	m := make(ColumnMap, len(schema))
	for field, candidates := range schema {
		m[field] = NotFound
		for _, name := range candidates {
			if idx := indexOf(normalized, normalizeHeader(name)); idx != NotFound {
				m[field] = idx
				break
			}
		}
		if m[field] != NotFound {
			continue
		}
		for _, name := range candidates {
			if idx := indexOfContains(normalized, normalizeHeader(name)); idx != NotFound {
				log.Printf("table: field %q bound to header %q by substring fallback", field, header[idx])
				m[field] = idx
				break
			}
		}
	}
	return m
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(h)))
}

func indexOf(headers []string, want string) int {
	for i, h := range headers {
		if h == want {
			return i
		}
	}
	return NotFound
}

func indexOfContains(headers []string, want string) int {
	if want == "" {
		return NotFound
	}
	for i, h := range headers {
		if strings.Contains(h, want) {
			return i
		}
	}
	return NotFound
}
