package events

import "github.com/umututku03/scriptorium-edit/internal/logging"

type PostTracer struct{}

var Post = PostTracer{}

func (PostTracer) Load(id int) {
	logging.Trace("post.load", map[string]interface{}{"id": id})
}

func (PostTracer) Loaded(id int, templates int) {
	logging.Trace("post.loaded", map[string]interface{}{"id": id, "templates": templates})
}

func (PostTracer) LoadError(id int, err error) {
	logging.Trace("post.load.error", map[string]interface{}{"id": id, "error": err.Error()})
}

func (PostTracer) SubmitAttempt(id int, templateIDs []int) {
	logging.Trace("post.submit", map[string]interface{}{"id": id, "templateIds": templateIDs})
}

func (PostTracer) SubmitRejected(id int, reason string) {
	logging.Trace("post.submit.rejected", map[string]interface{}{"id": id, "reason": reason})
}

func (PostTracer) Submitted(id int) {
	logging.Trace("post.submitted", map[string]interface{}{"id": id})
}

func (PostTracer) SubmitError(id int, err error) {
	logging.Trace("post.submit.error", map[string]interface{}{"id": id, "error": err.Error()})
}
