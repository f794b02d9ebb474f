package reconcile

import (
	"fmt"
	"strings"

	"github.com/schollz/closestmatch"

	"github.com/angelmondragon/lucroreal-backend/internal/costs"
	"github.com/angelmondragon/lucroreal-backend/pkg/tabular"
)

// Resolver finds the cost entry for a listing title.
type Resolver interface {
	Resolve(title string) (costs.Entry, bool)
}

// Strategy builds a Resolver over a cost table.
type Strategy func(*costs.Table) Resolver

// Strategy names accepted by StrategyByName.
const (
	StrategyFirstMatch   = "first-match"
	StrategyLongestMatch = "longest-match"
	StrategyClosestMatch = "closest-match"
)

// StrategyByName maps a configured strategy name to its constructor. Empty means first-match.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyFirstMatch:
		return FirstMatch, nil
	case StrategyLongestMatch:
		return LongestMatch, nil
	case StrategyClosestMatch:
		return ClosestMatch, nil
	default:
		return nil, fmt.Errorf("unknown cost resolver strategy %q", name)
	}
}

func contains(titleKey string, entry costs.Entry) bool {
	key := entry.Key()
	return strings.Contains(titleKey, key) || strings.Contains(key, titleKey)
}

type firstMatch struct {
	entries []costs.Entry
}

// FirstMatch accepts the first entry, in table insertion order, whose title
// contains or is contained in the listing title, ignoring case.
func FirstMatch(table *costs.Table) Resolver {
	return firstMatch{entries: table.Entries()}
}

func (r firstMatch) Resolve(title string) (costs.Entry, bool) {
	key := strings.ToLower(title)
	if key == "" {
		return costs.Entry{}, false
	}
	for _, entry := range r.entries {
		if contains(key, entry) {
			return entry, true
		}
	}
	return costs.Entry{}, false
}

type longestMatch struct {
	entries []costs.Entry
}

// LongestMatch accepts the containing entry with the longest title. Ties keep
// the earliest entry.
func LongestMatch(table *costs.Table) Resolver {
	return longestMatch{entries: table.Entries()}
}

func (r longestMatch) Resolve(title string) (costs.Entry, bool) {
	key := strings.ToLower(title)
	if key == "" {
		return costs.Entry{}, false
	}
	var (
		best  costs.Entry
		found bool
	)
	for _, entry := range r.entries {
		if !contains(key, entry) {
			continue
		}
		if !found || len(entry.Key()) > len(best.Key()) {
			best, found = entry, true
		}
	}
	return best, found
}

type closest struct {
	first   Resolver
	matcher *closestmatch.ClosestMatch
	byKey   map[string]costs.Entry
}

var closestBagSizes = []int{2, 3}

// ClosestMatch uses first-match containment and, when nothing contains,
// falls back to n-gram similarity over accent-folded titles. A fallback
// candidate must share at least one word of three or more letters with the title.
func ClosestMatch(table *costs.Table) Resolver {
	entries := table.Entries()
	byKey := make(map[string]costs.Entry, len(entries))
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		folded := tabular.Fold(entry.Title)
		if _, dup := byKey[folded]; dup {
			continue
		}
		byKey[folded] = entry
		keys = append(keys, folded)
	}
	return closest{
		first:   FirstMatch(table),
		matcher: closestmatch.New(keys, closestBagSizes),
		byKey:   byKey,
	}
}

func (r closest) Resolve(title string) (costs.Entry, bool) {
	if entry, ok := r.first.Resolve(title); ok {
		return entry, true
	}
	folded := tabular.Fold(title)
	if folded == "" || len(r.byKey) == 0 {
		return costs.Entry{}, false
	}
	candidate := r.matcher.Closest(folded)
	entry, ok := r.byKey[candidate]
	if !ok || !shareWord(folded, candidate) {
		return costs.Entry{}, false
	}
	return entry, true
}

func shareWord(a, b string) bool {
	words := map[string]struct{}{}
	for _, w := range strings.Fields(a) {
		if len(w) >= 3 {
			words[w] = struct{}{}
		}
	}
	for _, w := range strings.Fields(b) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}
