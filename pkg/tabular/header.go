package tabular

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column describes one logical field: the header names it is known by, in
// priority order, and the positional index used when no header matches.
// A negative Fallback means the field has no positional default.
type Column struct {
	Name     string
	Variants []string
	Fallback int
}

// Resolution records where a Column was found.
type Resolution struct {
	Index  int
	ByName bool
}

// Found reports whether the column resolved to any index.
func (r Resolution) Found() bool {
	return r.Index >= 0
}

// Header maps normalized header names to column indexes.
type Header struct {
	exact  map[string]int
	folded map[string]int
}

// NewHeader indexes a header row. When a name repeats, the last occurrence wins.
func NewHeader(row []string) Header {
	h := Header{
		exact:  make(map[string]int, len(row)),
		folded: make(map[string]int, len(row)),
	}
	for idx, cell := range row {
		name := Normalize(cell)
		if name == "" {
			continue
		}
		h.exact[name] = idx
		h.folded[Fold(name)] = idx
	}
	return h
}

// Lookup returns the index of the first variant present in the header. Exact
// (lowercased, trimmed) names are tried before accent-insensitive ones.
func (h Header) Lookup(variants ...string) (int, bool) {
	for _, variant := range variants {
		if idx, ok := h.exact[Normalize(variant)]; ok {
			return idx, true
		}
	}
	for _, variant := range variants {
		if idx, ok := h.folded[Fold(variant)]; ok {
			return idx, true
		}
	}
	return -1, false
}

// Has reports whether any of the variants is present.
func (h Header) Has(variants ...string) bool {
	_, ok := h.Lookup(variants...)
	return ok
}

// Resolve finds the column by name, falling back to its positional index.
func (h Header) Resolve(col Column) Resolution {
	if idx, ok := h.Lookup(col.Variants...); ok {
		return Resolution{Index: idx, ByName: true}
	}
	return Resolution{Index: col.Fallback}
}

// ResolveAll resolves every column, keyed by Column.Name.
func (h Header) ResolveAll(cols []Column) map[string]Resolution {
	out := make(map[string]Resolution, len(cols))
	for _, col := range cols {
		out[col.Name] = h.Resolve(col)
	}
	return out
}

// Normalize lowercases and trims a header cell.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fold normalizes s and strips diacritics, so "título" and "titulo" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, Normalize(s))
	if err != nil {
		return Normalize(s)
	}
	return folded
}
