package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/umututku03/scriptorium-edit/internal/api"
	uistate "github.com/umututku03/scriptorium-edit/internal/ui/state"
)

// fakeServer doubles the scriptorium API: one known post, a small template
// catalogue searched by title prefix, and request counters for assertions.
type fakeServer struct {
	*httptest.Server

	mu            sync.Mutex
	post          api.BlogPost
	fetchCount    int
	searchQueries []string
	updates       []api.UpdateRequest
	updateStatus  int
	updateBody    string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{
		post: api.BlogPost{
			ID:          12,
			Title:       "Generics in practice",
			Description: "Where they help",
			Content:     "see #1 and #23 and #1",
			Tag:         "go",
		},
		updateStatus: http.StatusOK,
	}
	templates := []api.Template{
		{ID: 42, Title: "fortune"},
		{ID: 43, Title: "formatter"},
		{ID: 7, Title: "fizzbuzz"},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/blogposts/12", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.fetchCount++
		post := fs.post
		fs.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"blogPost": post})
	})
	mux.HandleFunc("GET /api/codetemplates", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("title")
		fs.mu.Lock()
		fs.searchQueries = append(fs.searchQueries, query)
		fs.mu.Unlock()
		matches := []api.Template{}
		for _, tmpl := range templates {
			if strings.HasPrefix(tmpl.Title, query) {
				matches = append(matches, tmpl)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"codeTemplates": matches})
	})
	mux.HandleFunc("PUT /api/blogposts/12", func(w http.ResponseWriter, r *http.Request) {
		var update api.UpdateRequest
		json.NewDecoder(r.Body).Decode(&update)
		fs.mu.Lock()
		fs.updates = append(fs.updates, update)
		status, body := fs.updateStatus, fs.updateBody
		fs.mu.Unlock()
		w.WriteHeader(status)
		if body != "" {
			w.Write([]byte(body))
		}
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) queries() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.searchQueries...)
}

func (fs *fakeServer) updateCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.updates)
}

func newTestModel(serverURL string, hasToken bool) *Model {
	m := NewModel(api.NewClient(serverURL, "secret-token"), 12, hasToken, 80, 40, false)
	// Static cursors keep the test harness synchronous: blink commands
	// would otherwise re-arm themselves forever.
	m.title.Cursor.SetMode(cursor.CursorStatic)
	m.description.Cursor.SetMode(cursor.CursorStatic)
	m.tag.Cursor.SetMode(cursor.CursorStatic)
	m.content.Cursor.SetMode(cursor.CursorStatic)
	return m
}

func loadedHarness(t *testing.T, fs *fakeServer) *Harness {
	t.Helper()
	h := NewHarness(newTestModel(fs.URL, true))
	h.Start()
	if h.Model().phase != phaseLoaded {
		t.Fatalf("expected loaded phase, got %d (err %q)", h.Model().phase, h.Model().loadErr)
	}
	return h
}

func typeString(h *Harness, text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNoCredentialShowsLoginError(t *testing.T) {
	fs := newFakeServer(t)
	m := newTestModel(fs.URL, false)
	if cmd := m.Init(); cmd != nil {
		t.Fatalf("expected no load command without a credential")
	}
	if m.phase != phaseFailed || m.loadErr != errMustLogIn {
		t.Fatalf("expected login error, got phase=%d err=%q", m.phase, m.loadErr)
	}
	if !strings.Contains(m.View(), errMustLogIn) {
		t.Fatalf("expected login error in view")
	}
	if fs.fetchCount != 0 {
		t.Fatalf("expected no fetch, got %d", fs.fetchCount)
	}
}

func TestLoadPopulatesAllFields(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	if m.title.Value() != "Generics in practice" {
		t.Fatalf("unexpected title %q", m.title.Value())
	}
	if m.description.Value() != "Where they help" {
		t.Fatalf("unexpected description %q", m.description.Value())
	}
	if m.content.Value() != "see #1 and #23 and #1" {
		t.Fatalf("unexpected content %q", m.content.Value())
	}
	if m.tag.Value() != "go" {
		t.Fatalf("unexpected tag %q", m.tag.Value())
	}
	if fs.fetchCount != 1 {
		t.Fatalf("expected exactly one fetch, got %d", fs.fetchCount)
	}
}

func TestLoadFailureShowsServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "Blog post not found"}`))
	}))
	defer server.Close()
	h := NewHarness(newTestModel(server.URL, true))
	h.Start()
	m := h.Model()
	if m.phase != phaseFailed {
		t.Fatalf("expected failed phase, got %d", m.phase)
	}
	if m.loadErr != "Blog post not found" {
		t.Fatalf("expected server message, got %q", m.loadErr)
	}
}

func TestTypingHashTokenTriggersSearch(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	m.setContent("", 0)
	h.processCmd(m.setFocus(fieldContent))

	typeString(h, "hello #fo")

	queries := fs.queries()
	if len(queries) == 0 || queries[len(queries)-1] != "fo" {
		t.Fatalf("expected final search for \"fo\", got %v", queries)
	}
	m = h.Model()
	if !m.suggestVisible() {
		t.Fatalf("expected visible dropdown")
	}
	want := []uistate.Suggestion{{ID: 42, Title: "fortune"}, {ID: 43, Title: "formatter"}}
	if diff := cmp.Diff(want, m.suggest.Items); diff != "" {
		t.Fatalf("unexpected suggestions (-want +got):\n%s", diff)
	}
}

func TestSpaceTerminatesToken(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	m.setContent("", 0)
	h.processCmd(m.setFocus(fieldContent))

	typeString(h, "hello # ")

	if got := fs.queries(); len(got) != 0 {
		t.Fatalf("expected no searches, got %v", got)
	}
	if h.Model().suggestVisible() {
		t.Fatalf("expected hidden dropdown")
	}
}

func TestCaretMovementDoesNotSearch(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	m.setContent("", 0)
	h.processCmd(m.setFocus(fieldContent))

	typeString(h, "#fo")
	baseline := len(fs.queries())
	if baseline == 0 {
		t.Fatalf("expected searches while typing")
	}

	h.Send(tea.KeyMsg{Type: tea.KeyLeft})
	h.Send(tea.KeyMsg{Type: tea.KeyRight})
	h.Send(tea.KeyMsg{Type: tea.KeyHome})

	if got := len(fs.queries()); got != baseline {
		t.Fatalf("caret movement issued %d extra searches", got-baseline)
	}
}

func TestTokenAfterSpaceHidesDropdownAgain(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	m.setContent("", 0)
	h.processCmd(m.setFocus(fieldContent))

	typeString(h, "#fo")
	if !h.Model().suggestVisible() {
		t.Fatalf("expected visible dropdown after #fo")
	}
	typeString(h, " ")
	if h.Model().suggestVisible() {
		t.Fatalf("expected dropdown to hide once the token terminates")
	}
}

func TestSelectSuggestionReplacesTokenPreservingTail(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	m.setContent("say #fo please", 7)
	h.processCmd(m.setFocus(fieldContent))
	if cmd := m.refreshSuggest(); cmd != nil {
		h.processCmd(cmd)
	}
	m = h.Model()
	if !m.suggestVisible() {
		t.Fatalf("expected visible dropdown")
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})

	m = h.Model()
	if got := m.content.Value(); got != "say #42 please" {
		t.Fatalf("unexpected content %q", got)
	}
	if got := m.caretOffset(); got != 7 {
		t.Fatalf("expected caret 7, got %d", got)
	}
	if m.suggestVisible() {
		t.Fatalf("expected dropdown closed after insert")
	}
}

func TestSelectSuggestionAfterWrappedLine(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	// 100 runes soft-wrap inside the 76-column textarea, so the caret walk
	// crosses more visual lines than logical rows.
	long := strings.Repeat("a", 100)
	m.setContent(long+"\nsee #fo", 108)
	h.processCmd(m.setFocus(fieldContent))
	if !h.Model().suggestVisible() {
		t.Fatalf("expected visible dropdown")
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	typeString(h, "!")

	m = h.Model()
	if got := m.content.Value(); got != long+"\nsee #42!" {
		t.Fatalf("unexpected content tail %q", got[len(got)-12:])
	}
}

func TestSubmitRequiresAllFields(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	h.Model().tag.SetValue("")

	h.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	m := h.Model()
	if m.errMsg != errFieldsRequired {
		t.Fatalf("expected %q, got %q", errFieldsRequired, m.errMsg)
	}
	if fs.updateCount() != 0 {
		t.Fatalf("expected no update request, got %d", fs.updateCount())
	}
	if m.submit != submitIdle {
		t.Fatalf("expected submit idle, got %d", m.submit)
	}
}

func TestSubmitSuccessNavigatesAfterDelay(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)

	h.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	m := h.Model()
	if m.submit != submitDone {
		t.Fatalf("expected submit done, got %d", m.submit)
	}
	if m.infoMsg != msgUpdated {
		t.Fatalf("expected success message, got %q", m.infoMsg)
	}
	if want := fs.URL + "/blogposts/12"; m.ExitURL() != want {
		t.Fatalf("expected exit url %q, got %q", want, m.ExitURL())
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(fs.updates))
	}
	if diff := cmp.Diff([]int{1, 23, 1}, fs.updates[0].TemplateIDs); diff != "" {
		t.Fatalf("unexpected template ids (-want +got):\n%s", diff)
	}
}

func TestSubmitFailureShowsServerError(t *testing.T) {
	fs := newFakeServer(t)
	fs.updateStatus = http.StatusForbidden
	fs.updateBody = `{"error": "You do not own this post"}`
	h := loadedHarness(t, fs)

	h.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	m := h.Model()
	if m.submit != submitFailed {
		t.Fatalf("expected submit failed, got %d", m.submit)
	}
	if m.errMsg != "You do not own this post" {
		t.Fatalf("unexpected error %q", m.errMsg)
	}
	if m.ExitURL() != "" {
		t.Fatalf("expected no navigation, got %q", m.ExitURL())
	}
}

func TestEscapeCancelsToPostView(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)

	h.Send(tea.KeyMsg{Type: tea.KeyEsc})

	if want := fs.URL + "/blogposts/12"; h.Model().ExitURL() != want {
		t.Fatalf("expected exit url %q, got %q", want, h.Model().ExitURL())
	}
	if fs.updateCount() != 0 {
		t.Fatalf("expected no update on cancel")
	}
}

func TestEscapeClosesDropdownFirst(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	m.setContent("#fo", 3)
	h.processCmd(m.setFocus(fieldContent))
	if cmd := m.refreshSuggest(); cmd != nil {
		h.processCmd(cmd)
	}
	if !h.Model().suggestVisible() {
		t.Fatalf("expected visible dropdown")
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEsc})

	m = h.Model()
	if m.suggestVisible() {
		t.Fatalf("expected dropdown closed")
	}
	if m.ExitURL() != "" {
		t.Fatalf("first escape should only close the dropdown, got exit %q", m.ExitURL())
	}
}

func TestStaleSearchResponseStillApplies(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	h.processCmd(m.setFocus(fieldContent))
	m.suggestActive = true
	m.suggestStart = 0
	m.searchSeq = 5

	// Responses apply in arrival order even when a newer request exists.
	h.Send(searchResultMsg{seq: 3, token: "fo", matches: []api.Template{{ID: 42, Title: "fortune"}}})

	m = h.Model()
	if m.suggest == nil || m.suggest.Token != "fo" {
		t.Fatalf("expected stale response applied, got %#v", m.suggest)
	}
}

func TestSearchErrorLeavesPopupEmpty(t *testing.T) {
	fs := newFakeServer(t)
	h := loadedHarness(t, fs)
	m := h.Model()
	h.processCmd(m.setFocus(fieldContent))
	m.suggestActive = true
	m.suggest = uistate.NewSuggestions("fo", []uistate.Suggestion{{ID: 42, Title: "fortune"}})
	m.searchSeq = 1

	h.Send(searchResultMsg{seq: 1, token: "fo", err: errFake})

	m = h.Model()
	if m.suggest != nil {
		t.Fatalf("expected empty popup after search failure")
	}
	if m.errMsg != "" {
		t.Fatalf("search failures must never surface to the user, got %q", m.errMsg)
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "connection refused" }
