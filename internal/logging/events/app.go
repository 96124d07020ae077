package events

import "github.com/umututku03/scriptorium-edit/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Exit(reason string) {
	logging.Trace("app.exit", map[string]interface{}{"reason": reason})
}

func (AppTracer) Navigate(url string) {
	logging.Trace("app.navigate", map[string]interface{}{"url": url})
}
