package doc

import (
	"fmt"
	"html"
	"strings"
)

// RenderHTML converts a document to HTML, the shape the portal renders and
// the legacy importer reads back.
func RenderHTML(d *Document) string {
	if d == nil || d.Root == nil {
		return ""
	}
	return renderNode(d.Root)
}

func renderNode(n *Node) string {
	switch n.Type {
	case KindDoc:
		return renderContent(n.Content)
	case KindParagraph:
		return fmt.Sprintf("<p%s>%s</p>\n", alignStyle(n), renderContent(n.Content))
	case KindHeading:
		level := n.Level()
		if level < 1 || level > 6 {
			level = 1
		}
		return fmt.Sprintf("<h%d%s>%s</h%d>\n", level, alignStyle(n), renderContent(n.Content), level)
	case KindBulletList:
		return fmt.Sprintf("<ul>\n%s</ul>\n", renderContent(n.Content))
	case KindOrderedList:
		return fmt.Sprintf("<ol>\n%s</ol>\n", renderContent(n.Content))
	case KindListItem:
		return fmt.Sprintf("<li>%s</li>\n", renderContent(n.Content))
	case KindBlockquote:
		return fmt.Sprintf("<blockquote>\n%s</blockquote>\n", renderContent(n.Content))
	case KindCodeBlock:
		var text strings.Builder
		for _, child := range n.Content {
			if child.Type == KindText {
				text.WriteString(child.Text)
			}
		}
		return fmt.Sprintf("<pre><code>%s</code></pre>\n", html.EscapeString(text.String()))
	case KindText:
		return renderTextWithMarks(n.Text, n.Marks)
	case KindHardBreak:
		return "<br>"
	case KindHorizontalRule:
		return "<hr>\n"
	case KindTable:
		return fmt.Sprintf("<table>\n%s</table>\n", renderContent(n.Content))
	case KindTableRow:
		return fmt.Sprintf("<tr>\n%s</tr>\n", renderContent(n.Content))
	case KindTableCell:
		return fmt.Sprintf("<td>%s</td>\n", renderContent(n.Content))
	case KindTableHeader:
		return fmt.Sprintf("<th>%s</th>\n", renderContent(n.Content))
	case KindAttachment:
		return renderAttachment(n)
	default:
		// Unknown node type from a newer writer: render what we can.
		return renderContent(n.Content)
	}
}

func renderContent(content []*Node) string {
	var b strings.Builder
	for _, child := range content {
		b.WriteString(renderNode(child))
	}
	return b.String()
}

// renderAttachment emits the native on-disk encoding: a div carrying the
// attachment attributes, wrapping either an image or a file chip. The legacy
// importer recognizes this shape, so render and import round-trip.
func renderAttachment(n *Node) string {
	a, _ := n.Attachment()
	var b strings.Builder
	b.WriteString(`<div class="kh-attachment" data-kind="`)
	b.WriteString(html.EscapeString(string(a.Kind)))
	b.WriteString(`" data-file-name="`)
	b.WriteString(html.EscapeString(a.FileName))
	b.WriteString(`"`)
	if a.TempID != "" {
		fmt.Fprintf(&b, ` data-temp-id="%s"`, html.EscapeString(a.TempID))
	}
	if a.Kind == AttachmentImage && a.Src != "" {
		fmt.Fprintf(&b, ` data-src="%s"`, html.EscapeString(a.Src))
		if a.Width > 0 {
			fmt.Fprintf(&b, ` data-width="%d"`, a.Width)
		}
		if a.Height > 0 {
			fmt.Fprintf(&b, ` data-height="%d"`, a.Height)
		}
		b.WriteString(`>`)
		fmt.Fprintf(&b, `<img src="%s" alt="%s"`, html.EscapeString(a.Src), html.EscapeString(a.FileName))
		if a.Width > 0 {
			fmt.Fprintf(&b, ` width="%d"`, a.Width)
		}
		if a.Height > 0 {
			fmt.Fprintf(&b, ` height="%d"`, a.Height)
		}
		b.WriteString(`></div>`)
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(`>`)
	fmt.Fprintf(&b, `<span class="kh-attachment-chip">%s (%s)</span>`,
		html.EscapeString(a.FileName), html.EscapeString(string(a.Kind)))
	b.WriteString("</div>\n")
	return b.String()
}

func alignStyle(n *Node) string {
	align := n.Align()
	if align == "" || align == "left" {
		return ""
	}
	return fmt.Sprintf(` style="text-align: %s"`, html.EscapeString(align))
}

// renderTextWithMarks applies marks from outside in.
func renderTextWithMarks(text string, marks []Mark) string {
	if text == "" {
		return ""
	}

	htmlText := html.EscapeString(text)
	for i := len(marks) - 1; i >= 0; i-- {
		mark := marks[i]
		switch mark.Type {
		case MarkBold:
			htmlText = fmt.Sprintf("<strong>%s</strong>", htmlText)
		case MarkItalic:
			htmlText = fmt.Sprintf("<em>%s</em>", htmlText)
		case MarkCode:
			htmlText = fmt.Sprintf("<code>%s</code>", htmlText)
		case MarkLink:
			href, _ := mark.Attrs["href"].(string)
			htmlText = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), htmlText)
		case MarkStrike:
			htmlText = fmt.Sprintf("<s>%s</s>", htmlText)
		case MarkUnderline:
			htmlText = fmt.Sprintf("<u>%s</u>", htmlText)
		case MarkFontSize:
			size, _ := mark.Attrs["size"].(string)
			if size != "" {
				htmlText = fmt.Sprintf(`<span style="font-size: %s">%s</span>`, html.EscapeString(size), htmlText)
			}
		}
	}
	return htmlText
}
