package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	contentRows   = 8
	maxFormWidth  = 80
	minFieldWidth = 20

	// suggestMaxRows bounds the dropdown so it never swallows the form.
	suggestMaxRows   = 5
	suggestMinWidth  = 24
	headerSeparator  = "→"
	footerHintLoaded = "tab next field  enter pick/next  ctrl+s save  esc cancel  ctrl+c quit"
	footerHintFailed = "esc or ctrl+c to quit"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.phase {
	case phaseLoading:
		return m.viewLoading()
	case phaseFailed:
		return m.viewFailed()
	}
	return m.viewForm()
}

func (m *Model) header() string {
	return fmt.Sprintf("edit post%s#%d", headerSeparator, m.postID)
}

func (m *Model) viewLoading() string {
	lines := []styledLine{
		{text: m.header(), style: styles.Header},
		{},
		{text: "Loading blog post…", style: styles.Loading},
	}
	return m.finishView(lines)
}

func (m *Model) viewFailed() string {
	lines := []styledLine{
		{text: m.header(), style: styles.Header},
		{},
		{text: m.loadErr, style: styles.Error},
		{},
		{text: footerHintFailed, style: styles.Footer},
	}
	return m.finishView(lines)
}

func (m *Model) viewForm() string {
	lines := make([]styledLine, 0, 24)
	lines = append(lines, styledLine{text: m.header(), style: styles.Header})
	lines = append(lines, styledLine{})

	lines = append(lines, m.labelLine("Title", fieldTitle))
	lines = append(lines, styledLine{text: m.title.View(), raw: true})
	lines = append(lines, m.labelLine("Description", fieldDescription))
	lines = append(lines, styledLine{text: m.description.View(), raw: true})
	lines = append(lines, m.labelLine("Content", fieldContent))
	for _, row := range strings.Split(m.content.View(), "\n") {
		lines = append(lines, styledLine{text: row, raw: true})
	}
	if m.suggestVisible() {
		for _, row := range strings.Split(m.renderSuggestPanel(), "\n") {
			lines = append(lines, styledLine{text: row, raw: true})
		}
	}
	lines = append(lines, m.labelLine("Tag", fieldTag))
	lines = append(lines, styledLine{text: m.tag.View(), raw: true})

	lines = append(lines, styledLine{})
	switch {
	case m.errMsg != "":
		lines = append(lines, styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error})
	case m.submit == submitInFlight:
		lines = append(lines, styledLine{text: "Saving…", style: styles.Loading})
	case m.infoMsg != "":
		lines = append(lines, styledLine{text: m.infoMsg, style: styles.Success})
	default:
		lines = append(lines, styledLine{})
	}
	if m.showFooter {
		lines = append(lines, styledLine{text: footerHintLoaded, style: styles.Footer})
	}
	return m.finishView(lines)
}

func (m *Model) labelLine(label string, f field) styledLine {
	style := styles.Label
	if m.focus == f {
		style = styles.FocusedLabel
	}
	return styledLine{text: label, style: style}
}

// renderSuggestPanel draws the dropdown box directly below the content area.
func (m *Model) renderSuggestPanel() string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)

	width := m.suggestPanelWidth()
	innerW := width - 2
	m.suggest.EnsureCursorVisible(suggestMaxRows)
	visible, start := m.suggest.Visible(suggestMaxRows)

	titleSeg := " Templates: " + m.suggest.Token + " "
	dashes := width - 4 - len([]rune(titleSeg))
	if dashes < 0 {
		titleSeg = " … "
		dashes = width - 4 - len([]rune(titleSeg))
	}
	if dashes < 0 {
		dashes = 0
	}
	rows := make([]string, 0, len(visible)+2)
	rows = append(rows, styles.SuggestBorder.Render(tlc+hz)+
		styles.SuggestTitle.Render(titleSeg)+
		styles.SuggestBorder.Render(strings.Repeat(hz, dashes)+hz+trc))
	for i, item := range visible {
		label := fmt.Sprintf("▌ #%d %s", item.ID, item.Title)
		label = truncateText(label, innerW)
		if pad := innerW - len([]rune(label)); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		rowStyle := styles.Suggestion
		if start+i == m.suggest.Cursor {
			rowStyle = styles.PickedSuggestion
		}
		rows = append(rows, styles.SuggestBorder.Render(vt)+rowStyle.Render(label)+styles.SuggestBorder.Render(vt))
	}
	rows = append(rows, styles.SuggestBorder.Render(blc+strings.Repeat(hz, innerW)+brc))
	return strings.Join(rows, "\n")
}

func (m *Model) suggestPanelWidth() int {
	width := suggestMinWidth
	for _, item := range m.suggest.Items {
		if w := len([]rune(item.Title)) + 10; w > width {
			width = w
		}
	}
	max := m.width
	if max <= 0 || max > maxFormWidth {
		max = maxFormWidth
	}
	if width > max {
		width = max
	}
	return width
}

// finishView applies the shared width/height discipline and renders.
func (m *Model) finishView(lines []styledLine) string {
	lines = limitHeight(lines, m.height, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if w := lipgloss.Width(text); w > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw || line.style == nil {
			out[i] = line.text
			continue
		}
		out[i] = line.style.Render(line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
