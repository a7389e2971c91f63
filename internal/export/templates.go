package export

import (
	"bytes"
	"html/template"
	"time"
)

var documentTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
		"safeHTML": func(s interface{}) template.HTML {
			switch v := s.(type) {
			case string:
				return template.HTML(v)
			case template.HTML:
				return v
			default:
				return template.HTML("")
			}
		},
	}
	documentTemplate = template.Must(template.New("document").Funcs(funcMap).Parse(documentTemplateText))
}

// TemplateData holds data for article template rendering.
type TemplateData struct {
	Title       string
	Category    string
	Author      string
	UpdatedAt   time.Time
	ContentHTML template.HTML
}

// RenderDocumentHTML renders the printable article page.
func RenderDocumentHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const documentTemplateText = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #999; padding: 0.4rem 0.6rem; }
    .kh-attachment-chip { background: #f0f0f0; border-radius: 4px; padding: 0.2rem 0.5rem; }
    img { max-width: 100%; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">{{if .Category}}{{.Category}} | {{end}}{{.Author}}{{if not .UpdatedAt.IsZero}} | {{formatDate .UpdatedAt "Jan 2, 2006"}}{{end}}</div>
  <div>{{.ContentHTML | safeHTML}}</div>
</body>
</html>`
