package ui

import "strings"

// caretOffset returns the caret position within the content as a rune offset
// into the full text, counting one rune per newline. The textarea exposes the
// caret as a (row, soft-wrapped column) pair; StartColumn anchors the visual
// line back into the underlying row.
func (m *Model) caretOffset() int {
	value := m.content.Value()
	lines := strings.Split(value, "\n")
	row := m.content.Line()
	if row < 0 {
		row = 0
	}
	if row > len(lines)-1 {
		row = len(lines) - 1
	}
	info := m.content.LineInfo()
	col := info.StartColumn + info.ColumnOffset
	rowRunes := []rune(lines[row])
	if col > len(rowRunes) {
		col = len(rowRunes)
	}
	if col < 0 {
		col = 0
	}
	offset := 0
	for i := 0; i < row; i++ {
		offset += len([]rune(lines[i])) + 1
	}
	return offset + col
}

// setContent replaces the textarea value and places the caret at the given
// rune offset. The textarea only exposes relative cursor movement over
// visual lines, so a soft-wrapped row takes several steps to cross; the walk
// keys on Line() rather than on step counts.
func (m *Model) setContent(value string, caret int) {
	m.content.SetValue(value)
	runes := []rune(value)
	if caret < 0 {
		caret = 0
	}
	if caret > len(runes) {
		caret = len(runes)
	}
	row, col := 0, 0
	for _, r := range runes[:caret] {
		if r == '\n' {
			row++
			col = 0
			continue
		}
		col++
	}
	// SetValue leaves the cursor on the last row.
	for m.content.Line() > row {
		m.content.CursorUp()
	}
	m.content.SetCursor(col)
}
