// Package categories exposes the static category list embedded in the
// binary. The list is informational for callers: nothing in the store
// enforces membership, so suggestions here are purely a convenience.
package categories

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/yashsdhond/expense-tracker-mcp-server/assets"
)

type document struct {
	Categories []string `json:"categories"`
}

// List holds the known category names in document order.
type List struct {
	names []string
}

// Load parses the embedded categories document.
func Load() (*List, error) {
	var doc document
	if err := json.Unmarshal(assets.CategoriesJSON, &doc); err != nil {
		return nil, fmt.Errorf("parse categories document: %w", err)
	}
	return &List{names: doc.Categories}, nil
}

// Names returns a copy of the known category names.
func (l *List) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Suggest returns up to max known categories closest to name by Levenshtein
// distance, nearest first. Comparison is case-insensitive; ties break on
// document order. An exact (case-folded) match is returned alone.
func (l *List) Suggest(name string, max int) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || max < 1 {
		return nil
	}

	type scored struct {
		name     string
		distance int
		index    int
	}

	candidates := make([]scored, 0, len(l.names))
	for i, known := range l.names {
		d := levenshtein.ComputeDistance(name, strings.ToLower(known))
		if d == 0 {
			return []string{known}
		}
		candidates = append(candidates, scored{name: known, distance: d, index: i})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].index < candidates[j].index
	})

	if max > len(candidates) {
		max = len(candidates)
	}
	out := make([]string, 0, max)
	for _, c := range candidates[:max] {
		out = append(out, c.name)
	}
	return out
}
