// Package storage holds the listing and search rules shared by every
// storage adapter, plus a hook decorator for any core.Storage.
package storage

import (
	"slices"
	"strings"

	"github.com/aretw0/minions/pkg/core"
)

// ApplyFilter returns the records of all that match f: soft-deleted
// records are dropped unless requested, then type, status and tags are
// matched, the result is sorted and finally paginated. all is not modified.
func ApplyFilter(all []core.Minion, f core.Filter) []core.Minion {
	out := make([]core.Minion, 0, len(all))
	for _, m := range all {
		if matches(m, f) {
			out = append(out, m)
		}
	}

	if cmp := comparator(f); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []core.Minion{}
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}

func matches(m core.Minion, f core.Filter) bool {
	if !f.IncludeDeleted && m.IsDeleted() {
		return false
	}
	if f.MinionTypeID != "" && m.MinionTypeID != f.MinionTypeID {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	for _, tag := range f.Tags {
		if !slices.Contains(m.Tags, tag) {
			return false
		}
	}
	return true
}

func comparator(f core.Filter) func(a, b core.Minion) int {
	var cmp func(a, b core.Minion) int
	switch f.SortBy {
	case core.SortByTitle:
		cmp = func(a, b core.Minion) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case core.SortByCreatedAt:
		cmp = func(a, b core.Minion) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case core.SortByUpdatedAt:
		cmp = func(a, b core.Minion) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return nil
	}
	if f.SortOrder == core.SortDesc {
		return func(a, b core.Minion) int { return -cmp(a, b) }
	}
	return cmp
}

// Search returns the non-deleted records of all whose searchable text
// contains every whitespace-separated token of query, ignoring case. A
// record without searchable text is matched on its lowercased title. A
// blank query returns the default listing.
func Search(all []core.Minion, query string) []core.Minion {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return ApplyFilter(all, core.Filter{})
	}

	out := []core.Minion{}
	for _, m := range all {
		if m.IsDeleted() {
			continue
		}
		text := m.SearchableText
		if text == "" {
			text = strings.ToLower(m.Title)
		}
		if containsAll(text, tokens) {
			out = append(out, m)
		}
	}
	return out
}

func containsAll(text string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}
