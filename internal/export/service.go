package export

import (
	"fmt"
	"html/template"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/doc"
)

// Service exports articles to downloadable files.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Export generates the requested format from an article.
func (s *Service) Export(article Article, format Format) (*Result, error) {
	if article.Body == nil {
		return nil, ErrContentUnavailable
	}
	contentHTML := doc.RenderHTML(article.Body)

	switch format {
	case FormatPDF:
		page, err := RenderDocumentHTML(TemplateData{
			Title:       article.Title,
			Category:    article.Category,
			Author:      article.Author,
			UpdatedAt:   article.UpdatedAt,
			ContentHTML: template.HTML(contentHTML),
		})
		if err != nil {
			return nil, fmt.Errorf("render template: %w", err)
		}
		return renderPDF(page, article.Title)
	case FormatMarkdown:
		return renderMarkdown(contentHTML, article.Title)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
