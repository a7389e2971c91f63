// Package hub is the REST client for the Knowledge Hub API: node and child
// fetches for the tree, moderation actions, file upload, and the search
// fallback. Wire details beyond these calls belong to the server.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/moderation"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/tree"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/upload"
)

// APIError is a non-success response decoded from the server. The message is
// what gets shown to the user.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("hub api: status %d: %s", e.Status, e.Message)
}

// Client talks to one hub deployment.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// decodeError turns a non-success response into an APIError, falling back to
// the raw body when the server did not send the JSON error shape.
func decodeError(resp *http.Response) error {
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Node fetches a single node. A 404 means the node does not exist and is
// reported as (nil, nil), not an error.
func (c *Client) Node(ctx context.Context, id string) (*tree.Node, error) {
	resp, err := c.do(ctx, http.MethodGet, "/nodes/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	defer resp.Body.Close()
	var node tree.Node
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode node %s: %w", id, err)
	}
	return &node, nil
}

// Children fetches the immediate children of a node. Client satisfies
// tree.ChildSource, so the loader can fetch straight through it.
func (c *Client) Children(ctx context.Context, parentID string) ([]tree.Node, error) {
	var children []tree.Node
	if err := c.getJSON(ctx, "/nodes/"+url.PathEscape(parentID)+"/children", &children); err != nil {
		return nil, err
	}
	if children == nil {
		children = []tree.Node{}
	}
	return children, nil
}

// IndexEntry fetches a node's content-index row: workflow status, author,
// and the server's verdict on whether this actor may manage it. Client
// satisfies moderation.IndexSource. A 404 is reported as (nil, nil).
func (c *Client) IndexEntry(ctx context.Context, id string) (*moderation.IndexNode, error) {
	resp, err := c.do(ctx, http.MethodGet, "/nodes/"+url.PathEscape(id)+"/index", nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	defer resp.Body.Close()
	var entry moderation.IndexNode
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("decode index entry %s: %w", id, err)
	}
	return &entry, nil
}

func (c *Client) action(ctx context.Context, verb, id string) error {
	resp, err := c.do(ctx, http.MethodPost, "/nodes/"+url.PathEscape(id)+"/"+verb, nil, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	resp.Body.Close()
	return nil
}

// Approve publishes a pending article.
func (c *Client) Approve(ctx context.Context, id string) error {
	return c.action(ctx, "approve", id)
}

// Reject returns a pending article to its author.
func (c *Client) Reject(ctx context.Context, id string) error {
	return c.action(ctx, "reject", id)
}

// Delete removes an article.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/nodes/"+url.PathEscape(id), nil, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	resp.Body.Close()
	return nil
}

// Store uploads file bytes as multipart form data and returns the hosted
// URL. Client satisfies upload.Backend.
func (c *Client) Store(ctx context.Context, f upload.File, digest string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", f.Name)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if err := w.WriteField("digest", digest); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/uploads", &body, w.FormDataContentType())
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", decodeError(resp)
	}
	defer resp.Body.Close()
	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return result.URL, nil
}

// SearchHit is one article match from the hub's own search endpoint.
type SearchHit struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Search runs a query against the hub's search endpoint. It is the fallback
// when no search index is configured.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var hits []SearchHit
	if err := c.getJSON(ctx, "/search?"+q.Encode(), &hits); err != nil {
		return nil, err
	}
	return hits, nil
}
