package events

import "github.com/umututku03/scriptorium-edit/internal/logging"

type EditorTracer struct{}

type SuggestReason string

const (
	SuggestReasonEscape   SuggestReason = "escape"
	SuggestReasonNoToken  SuggestReason = "no-token"
	SuggestReasonInserted SuggestReason = "inserted"
)

var Editor = EditorTracer{}

func (EditorTracer) Focus(field string) {
	logging.Trace("editor.focus", map[string]interface{}{"field": field})
}

func (EditorTracer) SuggestOpen(token string) {
	logging.Trace("editor.suggest.open", map[string]interface{}{"token": token})
}

func (EditorTracer) SuggestClose(reason SuggestReason) {
	logging.Trace("editor.suggest.close", map[string]interface{}{"reason": string(reason)})
}

func (EditorTracer) SuggestCursor(index int) {
	logging.Trace("editor.suggest.cursor", map[string]interface{}{"index": index})
}

func (EditorTracer) SuggestPick(id int, token string) {
	logging.Trace("editor.suggest.pick", map[string]interface{}{"id": id, "token": token})
}

func (EditorTracer) Cancel() {
	logging.Trace("editor.cancel", nil)
}
