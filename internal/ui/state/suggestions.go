// Package state holds plain UI state containers that the model manipulates:
// the suggestion dropdown with its cursor and viewport.
package state

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggestion is one selectable template entry in the dropdown.
type Suggestion struct {
	ID    int
	Title string
}

// Suggestions encapsulates dropdown state: the token that produced the
// matches, the matches themselves, and cursor/viewport positions.
type Suggestions struct {
	Token          string
	Items          []Suggestion
	Cursor         int
	ViewportOffset int
}

// NewSuggestions builds dropdown state for a token, ranking the matches
// against it first.
func NewSuggestions(token string, items []Suggestion) *Suggestions {
	return &Suggestions{Token: token, Items: Rank(items, token)}
}

// Current returns the suggestion under the cursor.
func (s *Suggestions) Current() (Suggestion, bool) {
	if s == nil || len(s.Items) == 0 {
		return Suggestion{}, false
	}
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return Suggestion{}, false
	}
	return s.Items[s.Cursor], true
}

// MoveUp moves the cursor one entry up, wrapping at the top.
func (s *Suggestions) MoveUp() bool {
	if s == nil || len(s.Items) == 0 {
		return false
	}
	if s.Cursor > 0 {
		s.Cursor--
	} else {
		s.Cursor = len(s.Items) - 1
	}
	return true
}

// MoveDown moves the cursor one entry down, wrapping at the bottom.
func (s *Suggestions) MoveDown() bool {
	if s == nil || len(s.Items) == 0 {
		return false
	}
	if s.Cursor < len(s.Items)-1 {
		s.Cursor++
	} else {
		s.Cursor = 0
	}
	return true
}

// EnsureCursorVisible clamps the viewport so the cursor row is rendered when
// at most max rows are shown. max <= 0 means unrestricted.
func (s *Suggestions) EnsureCursorVisible(max int) {
	if s == nil || max <= 0 || len(s.Items) == 0 {
		return
	}
	if s.Cursor < s.ViewportOffset {
		s.ViewportOffset = s.Cursor
	}
	if s.Cursor >= s.ViewportOffset+max {
		s.ViewportOffset = s.Cursor - max + 1
	}
	if s.ViewportOffset < 0 {
		s.ViewportOffset = 0
	}
}

// Visible returns the slice of items inside the viewport along with the index
// of the first visible item.
func (s *Suggestions) Visible(max int) ([]Suggestion, int) {
	if s == nil {
		return nil, 0
	}
	if max <= 0 || len(s.Items) <= max {
		return s.Items, 0
	}
	start := s.ViewportOffset
	if start < 0 {
		start = 0
	}
	if start+max > len(s.Items) {
		start = len(s.Items) - max
	}
	return s.Items[start : start+max], start
}

// Rank orders matches by fuzzy distance to the token; server order breaks
// ties, and entries the ranker rejects keep their server order after the
// ranked ones.
func Rank(items []Suggestion, token string) []Suggestion {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" || len(items) == 0 {
		return cloneSuggestions(items)
	}
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, titles)
	if len(ranks) == 0 {
		return cloneSuggestions(items)
	}
	// Stable sort keeps server order among equal distances.
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Distance < ranks[j].Distance })
	picked := make(map[int]struct{}, len(ranks))
	ordered := make([]Suggestion, 0, len(items))
	for _, rank := range ranks {
		if rank.OriginalIndex < 0 || rank.OriginalIndex >= len(items) {
			continue
		}
		picked[rank.OriginalIndex] = struct{}{}
		ordered = append(ordered, items[rank.OriginalIndex])
	}
	for i, item := range items {
		if _, done := picked[i]; !done {
			ordered = append(ordered, item)
		}
	}
	return ordered
}

func cloneSuggestions(items []Suggestion) []Suggestion {
	if items == nil {
		return nil
	}
	cloned := make([]Suggestion, len(items))
	copy(cloned, items)
	return cloned
}
