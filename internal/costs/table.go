// Package costs holds the product cost reference that sales are reconciled against.
package costs

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Entry is one product of the cost reference. Commission and Shipping are
// defaults derived from the unit cost, used by the profit simulator.
type Entry struct {
	Title      string          `json:"title"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	Commission decimal.Decimal `json:"commission"`
	Shipping   decimal.Decimal `json:"shipping"`

	folded string
}

// Key returns the lowercased title used for containment matching.
func (e Entry) Key() string {
	if e.folded == "" {
		return strings.ToLower(e.Title)
	}
	return e.folded
}

// Table maps titles to cost entries and remembers insertion order. Replacing an
// existing title keeps its original position.
type Table struct {
	order   []string
	entries map[string]Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: map[string]Entry{}}
}

// Set inserts or replaces the entry for e.Title.
func (t *Table) Set(e Entry) {
	if t.entries == nil {
		t.entries = map[string]Entry{}
	}
	e.folded = strings.ToLower(e.Title)
	if _, ok := t.entries[e.Title]; !ok {
		t.order = append(t.order, e.Title)
	}
	t.entries[e.Title] = e
}

// Get returns the entry stored under the exact title.
func (t *Table) Get(title string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[title]
	return e, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Entries returns the entries in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.order))
	for _, title := range t.order {
		out = append(out, t.entries[title])
	}
	return out
}

// Titles returns the titles in insertion order.
func (t *Table) Titles() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
