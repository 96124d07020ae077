package ui

import (
	"strings"
	"testing"

	"github.com/umututku03/scriptorium-edit/internal/api"
	uistate "github.com/umututku03/scriptorium-edit/internal/ui/state"
)

func newViewModel() *Model {
	m := NewModel(api.NewClient("http://localhost:3000", "tok"), 12, true, 80, 40, false)
	m.phase = phaseLoaded
	m.title.SetValue("Generics in practice")
	m.description.SetValue("Where they help")
	m.content.SetValue("body")
	m.tag.SetValue("go")
	return m
}

func TestViewLoading(t *testing.T) {
	m := NewModel(api.NewClient("http://localhost:3000", "tok"), 12, true, 80, 40, false)
	view := m.View()
	if !strings.Contains(view, "Loading blog post…") {
		t.Fatalf("expected loading line, got:\n%s", view)
	}
	if !strings.Contains(view, "edit post→#12") {
		t.Fatalf("expected header, got:\n%s", view)
	}
}

func TestViewFailedShowsError(t *testing.T) {
	m := newViewModel()
	m.phase = phaseFailed
	m.loadErr = "Blog post not found"
	view := m.View()
	if !strings.Contains(view, "Blog post not found") {
		t.Fatalf("expected load error, got:\n%s", view)
	}
	if !strings.Contains(view, footerHintFailed) {
		t.Fatalf("expected quit hint, got:\n%s", view)
	}
}

func TestViewFormShowsLabels(t *testing.T) {
	view := newViewModel().View()
	for _, label := range []string{"Title", "Description", "Content", "Tag"} {
		if !strings.Contains(view, label) {
			t.Fatalf("expected label %q, got:\n%s", label, view)
		}
	}
}

func TestViewShowsSuggestPanel(t *testing.T) {
	m := newViewModel()
	m.focus = fieldContent
	m.suggestActive = true
	m.suggest = uistate.NewSuggestions("fo", []uistate.Suggestion{
		{ID: 42, Title: "fortune"},
		{ID: 43, Title: "formatter"},
	})
	view := m.View()
	if !strings.Contains(view, "Templates: fo") {
		t.Fatalf("expected panel title, got:\n%s", view)
	}
	if !strings.Contains(view, "#42 fortune") {
		t.Fatalf("expected suggestion row, got:\n%s", view)
	}
	if !strings.Contains(view, "╭") || !strings.Contains(view, "╯") {
		t.Fatalf("expected box borders, got:\n%s", view)
	}
}

func TestViewHidesSuggestPanelWhenFocusElsewhere(t *testing.T) {
	m := newViewModel()
	m.focus = fieldTitle
	m.suggestActive = true
	m.suggest = uistate.NewSuggestions("fo", []uistate.Suggestion{{ID: 42, Title: "fortune"}})
	if strings.Contains(m.View(), "Templates: fo") {
		t.Fatalf("panel must only render while the content field has focus")
	}
}

func TestViewStatusPrecedence(t *testing.T) {
	m := newViewModel()
	m.errMsg = errFieldsRequired
	m.infoMsg = msgUpdated
	view := m.View()
	if !strings.Contains(view, "Error: "+errFieldsRequired) {
		t.Fatalf("expected error line, got:\n%s", view)
	}
	if strings.Contains(view, msgUpdated) {
		t.Fatalf("error must suppress the success line")
	}

	m.errMsg = ""
	m.submit = submitInFlight
	if view := m.View(); !strings.Contains(view, "Saving…") {
		t.Fatalf("expected in-flight line, got:\n%s", view)
	}

	m.submit = submitDone
	if view := m.View(); !strings.Contains(view, msgUpdated) {
		t.Fatalf("expected success line, got:\n%s", view)
	}
}

func TestViewFooterToggle(t *testing.T) {
	m := newViewModel()
	if strings.Contains(m.View(), footerHintLoaded) {
		t.Fatalf("footer rendered while disabled")
	}
	m.showFooter = true
	if !strings.Contains(m.View(), footerHintLoaded) {
		t.Fatalf("footer missing while enabled")
	}
}

func TestLimitHeight(t *testing.T) {
	lines := []styledLine{{text: "a"}, {text: "b"}, {text: "c"}, {text: "d"}}
	got := limitHeight(lines, 3, 20)
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got))
	}
	if got[2].text != "…" {
		t.Fatalf("expected ellipsis terminator, got %q", got[2].text)
	}
	if kept := limitHeight(lines, 0, 20); len(kept) != len(lines) {
		t.Fatalf("zero height must disable trimming")
	}
}

func TestTruncateText(t *testing.T) {
	cases := []struct {
		text  string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "h"},
		{"héllo", 4, "hél…"},
		{"hello", 0, "hello"},
	}
	for _, tc := range cases {
		if got := truncateText(tc.text, tc.width); got != tc.want {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
		}
	}
}
