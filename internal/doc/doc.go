// Package doc implements the rich-text document model: a closed set of node
// kinds with a JSON codec, HTML rendering, legacy HTML import, and the
// position-based heading scan that feeds the outline sidebar.
package doc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/outline"
)

// Kind identifies a node variant. The set is closed: there is no dynamic
// extension registration, every kind is handled exhaustively.
type Kind string

const (
	KindDoc            Kind = "doc"
	KindParagraph      Kind = "paragraph"
	KindHeading        Kind = "heading"
	KindText           Kind = "text"
	KindBulletList     Kind = "bulletList"
	KindOrderedList    Kind = "orderedList"
	KindListItem       Kind = "listItem"
	KindBlockquote     Kind = "blockquote"
	KindCodeBlock      Kind = "codeBlock"
	KindHardBreak      Kind = "hardBreak"
	KindHorizontalRule Kind = "horizontalRule"
	KindTable          Kind = "table"
	KindTableRow       Kind = "tableRow"
	KindTableCell      Kind = "tableCell"
	KindTableHeader    Kind = "tableHeader"
	KindAttachment     Kind = "attachment"
)

// MarkType identifies a text formatting mark.
type MarkType string

const (
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkCode      MarkType = "code"
	MarkLink      MarkType = "link"
	MarkStrike    MarkType = "strike"
	MarkUnderline MarkType = "underline"
	MarkFontSize  MarkType = "fontSize"
)

// Mark is a formatting mark attached to a text node.
type Mark struct {
	Type  MarkType       `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node is one node in the document tree. The JSON shape matches what the
// portal stores for article bodies.
type Node struct {
	Type    Kind           `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Document wraps the root node of one article body.
type Document struct {
	Root *Node
}

// New creates an empty document: a doc node holding one empty paragraph.
func New() *Document {
	return &Document{
		Root: &Node{
			Type:    KindDoc,
			Content: []*Node{{Type: KindParagraph}},
		},
	}
}

// FromJSON decodes a stored document body.
func FromJSON(data []byte) (*Document, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if root.Type != KindDoc {
		return nil, fmt.Errorf("decode document: root type is %q, want %q", root.Type, KindDoc)
	}
	return &Document{Root: &root}, nil
}

// JSON encodes the document body for storage.
func (d *Document) JSON() ([]byte, error) {
	data, err := json.Marshal(d.Root)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Text creates a text node, optionally with marks.
func Text(text string, marks ...Mark) *Node {
	return &Node{Type: KindText, Text: text, Marks: marks}
}

// Paragraph creates a paragraph holding the given inline nodes.
func Paragraph(content ...*Node) *Node {
	return &Node{Type: KindParagraph, Content: content}
}

// Heading creates a heading of the given level holding the inline nodes.
func Heading(level int, content ...*Node) *Node {
	return &Node{
		Type:    KindHeading,
		Attrs:   map[string]any{"level": level},
		Content: content,
	}
}

// IsAtom reports whether a node is an indivisible unit the cursor cannot
// enter: it moves and deletes as one piece.
func (n *Node) IsAtom() bool {
	switch n.Type {
	case KindAttachment, KindHardBreak, KindHorizontalRule:
		return true
	default:
		return false
	}
}

// Size returns the node's footprint in the document position model: text
// counts its runes, atoms count 1, and every other node costs 2 (its open
// and close boundaries) plus its content.
func (n *Node) Size() int {
	switch {
	case n.Type == KindText:
		return len([]rune(n.Text))
	case n.IsAtom():
		return 1
	default:
		size := 2
		for _, child := range n.Content {
			size += child.Size()
		}
		return size
	}
}

// PlainText flattens the node's text content in document order.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.writePlainText(&b)
	return b.String()
}

func (n *Node) writePlainText(b *strings.Builder) {
	if n.Type == KindText {
		b.WriteString(n.Text)
		return
	}
	for _, child := range n.Content {
		child.writePlainText(b)
	}
}

// PlainText flattens the whole document, one line per block.
func (d *Document) PlainText() string {
	var lines []string
	for _, block := range d.Root.Content {
		text := strings.TrimSpace(block.PlainText())
		if text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// Headings scans the document top to bottom and emits one entry per heading
// node with its text, level, and absolute position. The emission order is
// the node-walk order, which is document order; callers must not re-sort.
// Positions shift as content is inserted or removed above a heading, so the
// result is only valid for the snapshot it was scanned from.
func (d *Document) Headings() []outline.Heading {
	var headings []outline.Heading
	pos := 0
	for _, child := range d.Root.Content {
		scanHeadings(child, pos, &headings)
		pos += child.Size()
	}
	return headings
}

func scanHeadings(n *Node, pos int, out *[]outline.Heading) {
	if n.Type == KindHeading {
		*out = append(*out, outline.Heading{
			Text:  n.PlainText(),
			Level: n.Level(),
			Pos:   pos,
		})
	}
	childPos := pos + 1
	for _, child := range n.Content {
		scanHeadings(child, childPos, out)
		childPos += child.Size()
	}
}

// Level returns the heading level attr, defaulting to 1.
func (n *Node) Level() int {
	return n.intAttr("level", 1)
}

func (n *Node) intAttr(key string, fallback int) int {
	if n.Attrs == nil {
		return fallback
	}
	switch v := n.Attrs[key].(type) {
	case int:
		return v
	case float64:
		// JSON numbers decode as float64.
		return int(v)
	default:
		return fallback
	}
}

func (n *Node) strAttr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	s, _ := n.Attrs[key].(string)
	return s
}

// Align returns the node's text alignment attr, or "" for the default.
func (n *Node) Align() string {
	return n.strAttr("textAlign")
}

// Walk visits every node in document order. Returning false from fn stops
// the descent into that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Content {
		child.Walk(fn)
	}
}
