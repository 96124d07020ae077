// Package api speaks the Scriptorium REST interface: fetch a post, search
// code templates by title, and submit a post update.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultTimeout = 10 * time.Second

// Client issues requests against a single Scriptorium server. The bearer
// token is provided at construction and attached only to privileged calls;
// template search stays unauthenticated.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the given server base URL. The token may be
// empty for clients that only search templates.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// BaseURL returns the normalised server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostURL returns the browser-facing view page for a post.
func (c *Client) PostURL(id int) string {
	return c.baseURL + "/blogposts/" + strconv.Itoa(id)
}

// FetchPost retrieves a post by id using the bearer credential.
func (c *Client) FetchPost(ctx context.Context, id int) (*BlogPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/blogposts/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	body, err := c.do(req, "failed to fetch blog post")
	if err != nil {
		return nil, err
	}
	var envelope postEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode blog post: %w", err)
	}
	return &envelope.BlogPost, nil
}

// SearchTemplates lists code templates whose title matches the given text.
// No credential is attached.
func (c *Client) SearchTemplates(ctx context.Context, title string) ([]Template, error) {
	endpoint := c.baseURL + "/api/codetemplates?title=" + url.QueryEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req, "failed to search code templates")
	if err != nil {
		return nil, err
	}
	var envelope templatesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode code templates: %w", err)
	}
	return envelope.CodeTemplates, nil
}

// UpdatePost overwrites the post with the supplied fields. Success is an
// HTTP 200; anything else surfaces the server error or the generic fallback.
func (c *Client) UpdatePost(ctx context.Context, id int, update UpdateRequest) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/blogposts/"+strconv.Itoa(id), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, "failed to update blog post")
	return err
}

// do executes the request and returns the response body for 2xx statuses.
// On failure the server-provided error message is preferred; fallback is the
// caller-supplied generic message.
func (c *Client) do(req *http.Request, fallback string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fallback, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if message := serverError(body); message != "" {
			return nil, fmt.Errorf("%s", message)
		}
		return nil, fmt.Errorf("%s (status %d)", fallback, resp.StatusCode)
	}
	return body, nil
}

// serverError pulls the error member out of an API failure payload. The
// server is not strict about the envelope shape, so gjson keeps this lenient:
// non-JSON bodies and missing members simply yield "".
func serverError(body []byte) string {
	for _, key := range []string{"error", "message"} {
		if value := gjson.GetBytes(body, key); value.Type == gjson.String {
			if message := strings.TrimSpace(value.String()); message != "" {
				return message
			}
		}
	}
	return ""
}
