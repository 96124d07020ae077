package events

import "github.com/umututku03/scriptorium-edit/internal/logging"

type SearchTracer struct{}

var Search = SearchTracer{}

func (SearchTracer) Query(seq int, token string) {
	logging.Trace("search.query", map[string]interface{}{"seq": seq, "token": token})
}

func (SearchTracer) Results(seq int, token string, count int) {
	logging.Trace("search.results", map[string]interface{}{"seq": seq, "token": token, "count": count})
}

// Stale records a response that arrived after a newer request was issued.
// Results are still applied in arrival order; this only makes the overlap
// observable in traces.
func (SearchTracer) Stale(seq, latest int) {
	logging.Trace("search.stale", map[string]interface{}{"seq": seq, "latest": latest})
}

func (SearchTracer) Error(seq int, err error) {
	logging.Trace("search.error", map[string]interface{}{"seq": seq, "error": err.Error()})
}
