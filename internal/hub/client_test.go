package hub

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/moderation"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/upload"
)

func TestNodeFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nodes/n1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "n1", "title": "Getting Started", "hasChildren": true,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	node, err := c.Node(context.Background(), "n1")
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	if node == nil || node.ID != "n1" || node.Title != "Getting Started" || !node.HasChildren {
		t.Errorf("unexpected node: %+v", node)
	}
}

func TestNodeNotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"not_found","message":"no such node"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	node, err := NewClient(srv.URL).Node(context.Background(), "missing")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if node != nil {
		t.Errorf("404 must yield nil node, got %+v", node)
	}
}

func TestChildrenFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nodes/root/children" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `[{"id":"a","title":"A","hasChildren":false}]`)
	}))
	defer srv.Close()

	children, err := NewClient(srv.URL).Children(context.Background(), "root")
	if err != nil {
		t.Fatalf("Children failed: %v", err)
	}
	if len(children) != 1 || children[0].ID != "a" {
		t.Errorf("unexpected children: %+v", children)
	}
}

func TestChildrenNullBodyIsEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	}))
	defer srv.Close()

	children, err := NewClient(srv.URL).Children(context.Background(), "leafy")
	if err != nil {
		t.Fatal(err)
	}
	if children == nil {
		t.Error("null body must decode to an empty, non-nil slice")
	}
}

func TestIndexEntryFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nodes/n1/index" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"id":"n1","title":"Runbook","status":"PENDING_REVIEW",`+
			`"author":"rina","updatedAt":"2026-08-30T10:00:00Z","canManage":true}`)
	}))
	defer srv.Close()

	entry, err := NewClient(srv.URL).IndexEntry(context.Background(), "n1")
	if err != nil {
		t.Fatalf("IndexEntry failed: %v", err)
	}
	if entry == nil || entry.ID != "n1" || entry.Author != "rina" || !entry.CanManage {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Status != moderation.StatusPending {
		t.Errorf("wire status must match the pending constant, got %q", entry.Status)
	}
	if entry.UpdatedAt.IsZero() {
		t.Error("updatedAt must decode")
	}
}

func TestIndexEntryNotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"not_found","message":"no index entry"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	entry, err := NewClient(srv.URL).IndexEntry(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if entry != nil {
		t.Errorf("404 must yield nil entry, got %+v", entry)
	}
}

func TestErrorResponseDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"forbidden","message":"insufficient role"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Approve(context.Background(), "n1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Code != "forbidden" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if apiErr.Message != "insufficient role" {
		t.Errorf("server message must survive: %q", apiErr.Message)
	}
}

func TestErrorResponseWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Delete(context.Background(), "n1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "bad gateway" {
		t.Errorf("expected raw body as message, got %q", apiErr.Message)
	}
}

func TestModerationActions(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	c := NewClient(srv.URL)

	if err := c.Approve(context.Background(), "n1"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPost || gotPath != "/nodes/n1/approve" {
		t.Errorf("approve hit %s %s", gotMethod, gotPath)
	}

	if err := c.Reject(context.Background(), "n2"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/nodes/n2/reject" {
		t.Errorf("reject hit %s", gotPath)
	}

	if err := c.Delete(context.Background(), "n3"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/nodes/n3" {
		t.Errorf("delete hit %s %s", gotMethod, gotPath)
	}
}

func TestStoreUploadsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "notes.pdf" || string(data) != "pdf bytes" {
			t.Errorf("unexpected upload: %q %q", header.Filename, data)
		}
		if r.FormValue("digest") == "" {
			t.Error("digest field missing")
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"url":"https://files.example/abc.pdf"}`)
	}))
	defer srv.Close()

	f := upload.File{Name: "notes.pdf", MIME: "application/pdf", Data: []byte("pdf bytes")}
	url, err := NewClient(srv.URL).Store(context.Background(), f, upload.Digest(f.Data))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if url != "https://files.example/abc.pdf" {
		t.Errorf("unexpected url %q", url)
	}
}

func TestTokenHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithToken("secret")).Search(context.Background(), "redis", 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Bearer secret" {
		t.Errorf("unexpected auth header %q", got)
	}
}
