package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/umututku03/scriptorium-edit/internal/api"
	"github.com/umututku03/scriptorium-edit/internal/logging"
	"github.com/umututku03/scriptorium-edit/internal/logging/events"
	uistate "github.com/umututku03/scriptorium-edit/internal/ui/state"
)

// postLoadedMsg mirrors the async read response.
type postLoadedMsg struct {
	post *api.BlogPost
	err  error
}

// searchResultMsg carries one template-search response. seq identifies the
// request that produced it so overlapping responses stay observable.
type searchResultMsg struct {
	seq     int
	token   string
	matches []api.Template
	err     error
}

// updateResultMsg mirrors the async update response.
type updateResultMsg struct {
	err error
}

// navigateMsg ends the program, pointing the user at a post view page.
type navigateMsg struct {
	url string
}

func (m *Model) loadPostCmd() tea.Cmd {
	client, id := m.client, m.postID
	return func() tea.Msg {
		events.Post.Load(id)
		post, err := client.FetchPost(context.Background(), id)
		if err != nil {
			logging.Error(err)
			events.Post.LoadError(id, err)
		}
		return postLoadedMsg{post: post, err: err}
	}
}

func (m *Model) searchTemplatesCmd(seq int, token string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		matches, err := client.SearchTemplates(context.Background(), token)
		if err != nil {
			logging.Error(err)
		}
		return searchResultMsg{seq: seq, token: token, matches: matches, err: err}
	}
}

func (m *Model) updatePostCmd(update api.UpdateRequest) tea.Cmd {
	client, id := m.client, m.postID
	return func() tea.Msg {
		err := client.UpdatePost(context.Background(), id, update)
		if err != nil {
			logging.Error(err)
		}
		return updateResultMsg{err: err}
	}
}

func (m *Model) navigateAfterDelayCmd(url string) tea.Cmd {
	return tea.Tick(postViewDelay, func(time.Time) tea.Msg {
		return navigateMsg{url: url}
	})
}

func (m *Model) handlePostLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(postLoadedMsg)
	if !ok || m.phase != phaseLoading {
		return nil
	}
	if loaded.err != nil {
		m.phase = phaseFailed
		m.loadErr = loaded.err.Error()
		return nil
	}
	m.phase = phaseLoaded
	m.title.SetValue(loaded.post.Title)
	m.description.SetValue(loaded.post.Description)
	m.content.SetValue(loaded.post.Content)
	m.tag.SetValue(loaded.post.Tag)
	events.Post.Loaded(loaded.post.ID, len(loaded.post.Templates))
	return m.setFocus(fieldTitle)
}

func (m *Model) handleSearchResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(searchResultMsg)
	if !ok {
		return nil
	}
	if result.seq != m.searchSeq {
		// Responses are applied in arrival order; a newer request may
		// already be in flight. Trace it rather than dropping it.
		events.Search.Stale(result.seq, m.searchSeq)
	}
	if result.err != nil {
		// Search failures never reach the user; the popup just stays empty.
		events.Search.Error(result.seq, result.err)
		m.suggest = nil
		return nil
	}
	events.Search.Results(result.seq, result.token, len(result.matches))
	if len(result.matches) == 0 {
		m.suggest = nil
		return nil
	}
	items := make([]uistate.Suggestion, 0, len(result.matches))
	for _, match := range result.matches {
		items = append(items, uistate.Suggestion{ID: match.ID, Title: match.Title})
	}
	m.suggest = uistate.NewSuggestions(result.token, items)
	if m.suggestActive {
		events.Editor.SuggestOpen(result.token)
	}
	return nil
}

func (m *Model) handleUpdateResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(updateResultMsg)
	if !ok || m.submit != submitInFlight {
		return nil
	}
	if result.err != nil {
		m.submit = submitFailed
		m.errMsg = result.err.Error()
		events.Post.SubmitError(m.postID, result.err)
		return nil
	}
	m.submit = submitDone
	m.errMsg = ""
	m.infoMsg = msgUpdated
	events.Post.Submitted(m.postID)
	return m.navigateAfterDelayCmd(m.client.PostURL(m.postID))
}

func (m *Model) handleNavigateMsg(msg tea.Msg) tea.Cmd {
	nav, ok := msg.(navigateMsg)
	if !ok {
		return nil
	}
	m.exitURL = nav.url
	events.App.Navigate(nav.url)
	return tea.Quit
}
