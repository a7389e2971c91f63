// Package export turns articles into downloadable files: PDF via headless
// Chrome and Markdown via HTML conversion.
package export

import (
	"errors"
	"time"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/doc"
)

// Format is the export output format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
)

// Article is the content and metadata one export covers.
type Article struct {
	ID        string
	Title     string
	Category  string
	Author    string
	UpdatedAt time.Time
	Body      *doc.Document
}

// Result contains the export output.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrContentUnavailable indicates the article body could not be loaded.
	ErrContentUnavailable = errors.New("export content unavailable")
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
)
