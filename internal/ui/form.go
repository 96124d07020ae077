package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/umututku03/scriptorium-edit/internal/api"
	"github.com/umututku03/scriptorium-edit/internal/logging/events"
	"github.com/umututku03/scriptorium-edit/internal/template"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		events.App.Exit("interrupt")
		return tea.Quit
	case "esc":
		if m.suggestVisible() {
			m.closeSuggest(events.SuggestReasonEscape)
			return nil
		}
		events.Editor.Cancel()
		if m.client != nil {
			m.exitURL = m.client.PostURL(m.postID)
		}
		return tea.Quit
	}
	if m.phase != phaseLoaded {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+s":
		return m.submitCmd()
	case "tab":
		return m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "up":
		if m.suggestVisible() {
			if m.suggest.MoveUp() {
				m.suggest.EnsureCursorVisible(suggestMaxRows)
				events.Editor.SuggestCursor(m.suggest.Cursor)
			}
			return nil
		}
	case "down":
		if m.suggestVisible() {
			if m.suggest.MoveDown() {
				m.suggest.EnsureCursorVisible(suggestMaxRows)
				events.Editor.SuggestCursor(m.suggest.Cursor)
			}
			return nil
		}
	case "enter":
		if m.suggestVisible() {
			m.insertSuggestion()
			return nil
		}
		if m.focus != fieldContent {
			return m.setFocus((m.focus + 1) % fieldCount)
		}
	}
	return m.routeToFocused(keyMsg)
}

// routeToFocused forwards a message to the focused input. Content edits also
// re-evaluate the autocomplete trigger; pure caret movement does not, so
// arrow keys never issue a search.
func (m *Model) routeToFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
	case fieldTag:
		m.tag, cmd = m.tag.Update(msg)
	case fieldContent:
		before := m.content.Value()
		m.content, cmd = m.content.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey && m.content.Value() != before {
			if searchCmd := m.refreshSuggest(); searchCmd != nil {
				return tea.Batch(cmd, searchCmd)
			}
		}
	}
	return cmd
}

func (m *Model) setFocus(target field) tea.Cmd {
	if target < 0 || target >= fieldCount {
		return nil
	}
	m.title.Blur()
	m.description.Blur()
	m.tag.Blur()
	m.content.Blur()
	if m.focus == fieldContent && target != fieldContent {
		m.closeSuggest(events.SuggestReasonNoToken)
	}
	m.focus = target
	events.Editor.Focus(target.name())
	switch target {
	case fieldTitle:
		return m.title.Focus()
	case fieldDescription:
		return m.description.Focus()
	case fieldTag:
		return m.tag.Focus()
	case fieldContent:
		cmd := m.content.Focus()
		if searchCmd := m.refreshSuggest(); searchCmd != nil {
			return tea.Batch(cmd, searchCmd)
		}
		return cmd
	}
	return nil
}

// refreshSuggest re-scans the text before the caret after every content edit.
// A live token issues one search request per keystroke; anything else hides
// the popup.
func (m *Model) refreshSuggest() tea.Cmd {
	token, start, ok := template.Trigger(m.content.Value(), m.caretOffset())
	if !ok {
		m.closeSuggest(events.SuggestReasonNoToken)
		return nil
	}
	m.suggestActive = true
	m.suggestStart = start
	m.searchSeq++
	events.Search.Query(m.searchSeq, token)
	return m.searchTemplatesCmd(m.searchSeq, token)
}

func (m *Model) suggestVisible() bool {
	return m.focus == fieldContent && m.suggestActive && m.suggest != nil && len(m.suggest.Items) > 0
}

func (m *Model) closeSuggest(reason events.SuggestReason) {
	wasVisible := m.suggestVisible()
	m.suggestActive = false
	m.suggestStart = -1
	m.suggest = nil
	if wasVisible {
		events.Editor.SuggestClose(reason)
	}
}

// insertSuggestion replaces the live "#token" span with "#<id>" and closes
// the popup, keeping everything after the original caret intact.
func (m *Model) insertSuggestion() {
	picked, ok := m.suggest.Current()
	if !ok || m.suggestStart < 0 {
		return
	}
	caret := m.caretOffset()
	updated, newCaret := template.Replace(m.content.Value(), caret, m.suggestStart, picked.ID)
	m.setContent(updated, newCaret)
	events.Editor.SuggestPick(picked.ID, m.suggest.Token)
	m.closeSuggest(events.SuggestReasonInserted)
}

func (m *Model) submitCmd() tea.Cmd {
	if m.submit == submitInFlight || m.submit == submitDone {
		return nil
	}
	title := m.title.Value()
	description := m.description.Value()
	content := m.content.Value()
	tag := m.tag.Value()
	if title == "" || description == "" || content == "" || tag == "" {
		m.errMsg = errFieldsRequired
		m.infoMsg = ""
		events.Post.SubmitRejected(m.postID, "empty-field")
		return nil
	}
	ids := template.ExtractIDs(content)
	m.submit = submitInFlight
	m.errMsg = ""
	m.infoMsg = ""
	events.Post.SubmitAttempt(m.postID, ids)
	return m.updatePostCmd(api.UpdateRequest{
		Title:       title,
		Description: description,
		Content:     content,
		Tag:         tag,
		TemplateIDs: ids,
	})
}
