package export

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// renderMarkdown converts article HTML to Markdown. The article body only,
// no page chrome; this is what the git mirror commits.
func renderMarkdown(html string, title string) (*Result, error) {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	body := "# " + title + "\n\n" + md
	return &Result{
		Data:     []byte(body),
		Filename: sanitizeFilename(title) + ".md",
		MimeType: "text/markdown",
	}, nil
}
