// Package upload moves selected files to a storage backend and hands back
// the references that attachment nodes and the sidebar list carry.
package upload

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// File is one selected file pending upload.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Reference links an uploaded file to the inline node and the sidebar entry
// that reference it.
type Reference struct {
	TempID string
	URL    string
	Digest string
}

// Backend stores file bytes somewhere reachable and returns the URL.
type Backend interface {
	Store(ctx context.Context, f File, digest string) (string, error)
}

// Manager uploads files through a backend, issuing a fresh correlation id per
// file. Each file succeeds or fails on its own.
type Manager struct {
	backend Backend
}

func NewManager(backend Backend) *Manager {
	return &Manager{backend: backend}
}

// Upload stores one file and returns its reference. The correlation id is
// unique per call even when the same bytes are uploaded twice.
func (m *Manager) Upload(ctx context.Context, f File) (Reference, error) {
	digest := Digest(f.Data)
	url, err := m.backend.Store(ctx, f, digest)
	if err != nil {
		return Reference{}, fmt.Errorf("upload %q: %w", f.Name, err)
	}
	ref := Reference{
		TempID: uuid.NewString(),
		URL:    url,
		Digest: digest,
	}
	log.Printf("uploaded %q (%d bytes) as %s", f.Name, len(f.Data), ref.TempID)
	return ref, nil
}

// UploadAll uploads each file in order. Failures are reported per file and do
// not stop the remaining uploads; the returned slices are index-aligned with
// the input.
func (m *Manager) UploadAll(ctx context.Context, files []File) ([]Reference, []error) {
	refs := make([]Reference, len(files))
	errs := make([]error, len(files))
	for i, f := range files {
		refs[i], errs[i] = m.Upload(ctx, f)
	}
	return refs, errs
}

// Digest returns the hex BLAKE2b-256 digest of the file bytes, used to
// detect duplicate content across uploads.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DataURL encodes the file as an inline data URL for instant local preview.
func DataURL(f File) string {
	mime := f.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}
