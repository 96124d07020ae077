package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/umututku03/scriptorium-edit/internal/api"
	"github.com/umututku03/scriptorium-edit/internal/theme"
	uistate "github.com/umututku03/scriptorium-edit/internal/ui/state"
)

var styles = theme.Default()

// loadPhase is the post-load lifecycle. The zero value means the load is
// still in flight; the form renders only in phaseLoaded.
type loadPhase int

const (
	phaseLoading loadPhase = iota
	phaseLoaded
	phaseFailed
)

// submitPhase is the update lifecycle, kept separate from loadPhase so the
// form cannot be submitting before it has loaded.
type submitPhase int

const (
	submitIdle submitPhase = iota
	submitInFlight
	submitDone
	submitFailed
)

// field identifies the editable inputs in screen order.
type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldContent
	fieldTag
	fieldCount
)

func (f field) name() string {
	switch f {
	case fieldTitle:
		return "title"
	case fieldDescription:
		return "description"
	case fieldContent:
		return "content"
	case fieldTag:
		return "tag"
	}
	return "unknown"
}

const (
	errMustLogIn      = "You must be logged in to edit this post."
	errFieldsRequired = "All fields are required!"
	msgUpdated        = "Blog post updated successfully!"

	// postViewDelay is how long the success message stays on screen before
	// the client exits to the post view page.
	postViewDelay = 1500 * time.Millisecond
)

type msgHandler func(tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the edit-post screen.
type Model struct {
	client   *api.Client
	postID   int
	hasToken bool

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	phase   loadPhase
	loadErr string
	submit  submitPhase
	errMsg  string
	infoMsg string

	focus       field
	title       textinput.Model
	description textinput.Model
	tag         textinput.Model
	content     textarea.Model

	// suggestActive mirrors the presence of a trailing #token before the
	// caret; suggest holds whatever the most recent search returned. The
	// popup renders only when both agree, so a late response cannot reopen
	// a dismissed popup.
	suggestActive bool
	suggestStart  int
	suggest       *uistate.Suggestions
	searchSeq     int

	exitURL string

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the edit screen for a post. hasToken reports whether a
// bearer credential was resolved; without one the screen is the login error
// and no read request is ever issued.
func NewModel(client *api.Client, postID int, hasToken bool, width, height int, showFooter bool) *Model {
	title := textinput.New()
	title.Placeholder = "Title"
	description := textinput.New()
	description.Placeholder = "Description"
	tag := textinput.New()
	tag.Placeholder = "Tag"
	content := textarea.New()
	content.Placeholder = "Content, reference templates with #id"
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.SetHeight(contentRows)

	m := &Model{
		client:       client,
		postID:       postID,
		hasToken:     hasToken,
		showFooter:   showFooter,
		title:        title,
		description:  description,
		tag:          tag,
		content:      content,
		suggestStart: -1,
	}
	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height
		m.fixedHeight = true
	}
	if !hasToken {
		m.phase = phaseFailed
		m.loadErr = errMustLogIn
	}
	m.resizeInputs()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface. Exactly one load attempt is made,
// and none at all without a credential.
func (m *Model) Init() tea.Cmd {
	if !m.hasToken {
		return nil
	}
	return tea.Batch(m.loadPostCmd(), textinput.Blink)
}

// Update responds to Bubble Tea messages. Messages without a registered
// handler (cursor blink ticks and the like) fall through to the focused
// input.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, m.routeToFocused(msg)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(postLoadedMsg{}):     m.handlePostLoadedMsg,
		reflect.TypeOf(searchResultMsg{}):   m.handleSearchResultMsg,
		reflect.TypeOf(updateResultMsg{}):   m.handleUpdateResultMsg,
		reflect.TypeOf(navigateMsg{}):       m.handleNavigateMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// ExitURL returns the post view URL to print once the program has finished,
// or "" when no navigation was requested.
func (m *Model) ExitURL() string {
	return m.exitURL
}

// Saved reports whether the update was accepted by the server.
func (m *Model) Saved() bool {
	return m.submit == submitDone
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.resizeInputs()
	return nil
}

func (m *Model) resizeInputs() {
	width := m.width
	if width <= 0 || width > maxFormWidth {
		width = maxFormWidth
	}
	inner := width - 4
	if inner < minFieldWidth {
		inner = minFieldWidth
	}
	m.title.Width = inner
	m.description.Width = inner
	m.tag.Width = inner
	m.content.SetWidth(inner)
}
