package api

// BlogPost is the editable copy of a post as served by the API. The client
// mutates a transient copy of the four editable fields; Templates is the
// server-side view of attached references and is read-only here.
type BlogPost struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Tag         string     `json:"tag"`
	Templates   []Template `json:"templates,omitempty"`
}

// Template is a reusable content snippet, referenced from post bodies by
// numeric id. Only id and title matter to the client.
type Template struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// UpdateRequest carries the full replacement state for a post. Every field
// overwrites the stored value; TemplateIDs is extracted from the content body
// before submission.
type UpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Tag         string `json:"tag"`
	TemplateIDs []int  `json:"templateIds"`
}

type postEnvelope struct {
	BlogPost BlogPost `json:"blogPost"`
}

type templatesEnvelope struct {
	CodeTemplates []Template `json:"codeTemplates"`
}
