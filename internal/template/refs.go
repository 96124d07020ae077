// Package template implements the #-reference syntax used to embed code
// templates inside blog post content.
package template

import (
	"regexp"
	"strconv"
)

var (
	triggerPattern   = regexp.MustCompile(`#(\w*)$`)
	referencePattern = regexp.MustCompile(`#(\d+)`)
)

// Trigger scans the content preceding the caret for a trailing "#token" span.
// It returns the search token and the rune offset of the "#" character.
// ok is false when the caret is not at the end of a non-empty token; a bare
// "#" or a "#" already terminated by whitespace does not trigger a search.
func Trigger(content string, caret int) (token string, start int, ok bool) {
	runes := []rune(content)
	if caret < 0 || caret > len(runes) {
		return "", 0, false
	}
	prefix := string(runes[:caret])
	loc := triggerPattern.FindStringSubmatchIndex(prefix)
	if loc == nil {
		return "", 0, false
	}
	token = prefix[loc[2]:loc[3]]
	if token == "" {
		return "", 0, false
	}
	start = len([]rune(prefix[:loc[0]]))
	return token, start, true
}

// Replace substitutes the trigger span [start, caret) with a "#<id>" reference
// and returns the updated content plus the caret position just after the
// inserted reference. Text following the original caret is preserved.
func Replace(content string, caret, start, id int) (string, int) {
	runes := []rune(content)
	if caret < 0 || caret > len(runes) || start < 0 || start > caret {
		return content, caret
	}
	ref := "#" + strconv.Itoa(id)
	updated := make([]rune, 0, len(runes)+len(ref))
	updated = append(updated, runes[:start]...)
	updated = append(updated, []rune(ref)...)
	updated = append(updated, runes[caret:]...)
	return string(updated), start + len([]rune(ref))
}

// ExtractIDs collects every "#<digits>" reference in the content, in document
// order. Duplicates are preserved; the server deduplicates on its side.
func ExtractIDs(content string) []int {
	matches := referencePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	ids := make([]int, 0, len(matches))
	for _, match := range matches {
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
