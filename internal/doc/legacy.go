package doc

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// videoExtensions are the file extensions the legacy video wrapper encoding
// recognizes. Comparison is case-insensitive.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
}

// ParseHTML imports stored article HTML into the document model. Besides the
// native shapes it recognizes three legacy attachment encodings: the native
// attribute-carrying div, the video wrapper span, and the PDF viewer macro
// div. Unrecognized shapes under those tag patterns are not converted; they
// fall through to default element handling so historical documents keep
// rendering.
func ParseHTML(src string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	body := findElement(root, "body")
	if body == nil {
		body = root
	}

	var blocks []*Node
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		blocks = append(blocks, convertBlock(child)...)
	}
	if len(blocks) == 0 {
		blocks = []*Node{{Type: KindParagraph}}
	}
	return &Document{Root: &Node{Type: KindDoc, Content: blocks}}, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func convertBlock(n *html.Node) []*Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return []*Node{Paragraph(Text(strings.TrimSpace(n.Data)))}
	case html.ElementNode:
		// Handled below.
	default:
		return nil
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		node := &Node{
			Type:    KindHeading,
			Attrs:   map[string]any{"level": level},
			Content: convertInlineChildren(n, nil),
		}
		applyAlign(node, n)
		return []*Node{node}
	case "p":
		node := &Node{Type: KindParagraph, Content: convertInlineChildren(n, nil)}
		applyAlign(node, n)
		return []*Node{node}
	case "ul":
		return []*Node{{Type: KindBulletList, Content: convertListItems(n)}}
	case "ol":
		return []*Node{{Type: KindOrderedList, Content: convertListItems(n)}}
	case "blockquote":
		var content []*Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			content = append(content, convertBlock(c)...)
		}
		return []*Node{{Type: KindBlockquote, Content: content}}
	case "pre":
		text := collectText(n)
		text = strings.TrimSuffix(text, "\n")
		var content []*Node
		if text != "" {
			content = []*Node{Text(text)}
		}
		return []*Node{{Type: KindCodeBlock, Content: content}}
	case "hr":
		return []*Node{{Type: KindHorizontalRule}}
	case "table":
		return []*Node{convertTable(n)}
	case "div":
		if node, ok := parseNativeAttachment(n); ok {
			return []*Node{node}
		}
		if node, ok := parsePDFMacro(n); ok {
			return []*Node{node}
		}
		// Generic container: flatten its children as blocks.
		var blocks []*Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			blocks = append(blocks, convertBlock(c)...)
		}
		return blocks
	case "span":
		if node, ok := parseVideoWrapper(n); ok {
			return []*Node{node}
		}
		inline := convertInline(n, nil)
		if len(inline) == 0 {
			return nil
		}
		return []*Node{Paragraph(inline...)}
	case "img":
		return []*Node{NewAttachmentNode(Attachment{
			FileName: attr(n, "alt"),
			Kind:     AttachmentImage,
			Src:      attr(n, "src"),
			Width:    intOrZero(attr(n, "width")),
			Height:   intOrZero(attr(n, "height")),
		})}
	default:
		// Unknown block element: hoist any inline content into a paragraph.
		inline := convertInlineChildren(n, nil)
		if len(inline) == 0 {
			return nil
		}
		return []*Node{Paragraph(inline...)}
	}
}

func convertListItems(n *html.Node) []*Node {
	var items []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		var content []*Node
		hasBlocks := false
		for lc := c.FirstChild; lc != nil; lc = lc.NextSibling {
			if lc.Type == html.ElementNode && (lc.Data == "ul" || lc.Data == "ol" || lc.Data == "p") {
				hasBlocks = true
				break
			}
		}
		if hasBlocks {
			for lc := c.FirstChild; lc != nil; lc = lc.NextSibling {
				content = append(content, convertBlock(lc)...)
			}
		} else {
			inline := convertInlineChildren(c, nil)
			content = []*Node{Paragraph(inline...)}
		}
		items = append(items, &Node{Type: KindListItem, Content: content})
	}
	return items
}

func convertTable(n *html.Node) *Node {
	table := &Node{Type: KindTable}
	var walkRows func(*html.Node)
	walkRows = func(el *html.Node) {
		for c := el.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				walkRows(c)
			case "tr":
				table.Content = append(table.Content, convertTableRow(c))
			}
		}
	}
	walkRows(n)
	return table
}

func convertTableRow(n *html.Node) *Node {
	row := &Node{Type: KindTableRow}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		var kind Kind
		switch c.Data {
		case "td":
			kind = KindTableCell
		case "th":
			kind = KindTableHeader
		default:
			continue
		}
		content := convertInlineChildren(c, nil)
		row.Content = append(row.Content, &Node{
			Type:    kind,
			Content: []*Node{Paragraph(content...)},
		})
	}
	return row
}

func convertInlineChildren(n *html.Node, marks []Mark) []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, convertInline(c, marks)...)
	}
	return out
}

func convertInline(n *html.Node, marks []Mark) []*Node {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		text := strings.ReplaceAll(n.Data, "\n", " ")
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []*Node{Text(text, marks...)}
	case html.ElementNode:
		// Handled below.
	default:
		return nil
	}

	withMark := func(m Mark) []*Node {
		return convertInlineChildren(n, append(append([]Mark{}, marks...), m))
	}

	switch n.Data {
	case "strong", "b":
		return withMark(Mark{Type: MarkBold})
	case "em", "i":
		return withMark(Mark{Type: MarkItalic})
	case "code":
		return withMark(Mark{Type: MarkCode})
	case "a":
		return withMark(Mark{Type: MarkLink, Attrs: map[string]any{"href": attr(n, "href")}})
	case "s", "strike", "del":
		return withMark(Mark{Type: MarkStrike})
	case "u":
		return withMark(Mark{Type: MarkUnderline})
	case "br":
		return []*Node{{Type: KindHardBreak}}
	case "img":
		return []*Node{NewAttachmentNode(Attachment{
			FileName: attr(n, "alt"),
			Kind:     AttachmentImage,
			Src:      attr(n, "src"),
			Width:    intOrZero(attr(n, "width")),
			Height:   intOrZero(attr(n, "height")),
		})}
	case "span":
		if node, ok := parseVideoWrapper(n); ok {
			return []*Node{node}
		}
		if size := styleValue(attr(n, "style"), "font-size"); size != "" {
			return withMark(Mark{Type: MarkFontSize, Attrs: map[string]any{"size": size}})
		}
		return convertInlineChildren(n, marks)
	default:
		return convertInlineChildren(n, marks)
	}
}

// parseNativeAttachment recognizes the native encoding: a div carrying
// explicit attachment attributes. A div without both a kind and a file name
// is not an attachment.
func parseNativeAttachment(n *html.Node) (*Node, bool) {
	kind := attr(n, "data-kind")
	fileName := attr(n, "data-file-name")
	if kind == "" || fileName == "" {
		return nil, false
	}
	switch AttachmentKind(kind) {
	case AttachmentImage, AttachmentVideo, AttachmentPDF, AttachmentFile:
	default:
		return nil, false
	}
	return NewAttachmentNode(Attachment{
		FileName: fileName,
		Kind:     AttachmentKind(kind),
		TempID:   attr(n, "data-temp-id"),
		Src:      attr(n, "data-src"),
		Width:    intOrZero(attr(n, "data-width")),
		Height:   intOrZero(attr(n, "data-height")),
	}), true
}

// parseVideoWrapper recognizes the legacy wrapper span: a span containing a
// link whose target ends in a known video extension. The filename is the
// URL-decoded last path segment, query string excluded. Links to anything
// else are not converted.
func parseVideoWrapper(n *html.Node) (*Node, bool) {
	link := findElement(n, "a")
	if link == nil {
		return nil, false
	}
	href := attr(link, "href")
	name, ok := videoFileName(href)
	if !ok {
		return nil, false
	}
	return NewAttachmentNode(Attachment{
		FileName: name,
		Kind:     AttachmentVideo,
		Src:      href,
	}), true
}

// videoFileName extracts the decoded filename from a video link, stripping
// query and fragment, and reports whether the extension is recognized.
func videoFileName(href string) (string, bool) {
	if href == "" {
		return "", false
	}
	segment := href
	if i := strings.IndexAny(segment, "?#"); i >= 0 {
		segment = segment[:i]
	}
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		decoded = segment
	}
	if !videoExtensions[strings.ToLower(path.Ext(decoded))] {
		return "", false
	}
	return decoded, true
}

// parsePDFMacro recognizes the legacy PDF viewer macro: a macro div with a
// nested element naming the attachment. A macro div without a nested name is
// not converted.
func parsePDFMacro(n *html.Node) (*Node, bool) {
	if attr(n, "data-macro-name") != "viewpdf" && !hasClass(n, "pdf-viewer-macro") {
		return nil, false
	}
	named := findAttrElement(n, "data-attachment-name")
	if named == nil {
		return nil, false
	}
	name := attr(named, "data-attachment-name")
	if name == "" {
		return nil, false
	}
	return NewAttachmentNode(Attachment{
		FileName: name,
		Kind:     AttachmentPDF,
	}), true
}

func findAttrElement(n *html.Node, key string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == key && a.Val != "" {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAttrElement(c, key); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(el *html.Node) {
		if el.Type == html.TextNode {
			b.WriteString(el.Data)
		}
		for c := el.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func applyAlign(node *Node, el *html.Node) {
	align := styleValue(attr(el, "style"), "text-align")
	if align == "" || align == "left" {
		return
	}
	if node.Attrs == nil {
		node.Attrs = map[string]any{}
	}
	node.Attrs["textAlign"] = align
}

// styleValue pulls one property out of an inline style attribute.
func styleValue(style, property string) string {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func intOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
