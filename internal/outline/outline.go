// Package outline builds the nested table of contents shown beside a
// fullscreen article from the flat heading stream the document model emits.
package outline

import (
	"fmt"
	"strings"
)

// UntitledSection is displayed for headings with no text. The item keeps its
// position-derived id regardless.
const UntitledSection = "Untitled Section"

// Heading is one heading occurrence in document order: plain text, rank
// (1..n), and absolute document position at scan time.
type Heading struct {
	Text  string
	Level int
	Pos   int
}

// Item is one outline entry. Children hold the headings that are strictly
// deeper and contiguous until the next heading of equal or shallower level.
type Item struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Level    int     `json:"level"`
	Pos      int     `json:"pos"`
	Children []*Item `json:"children,omitempty"`
}

// Build reconstructs the outline forest from headings in document order, in
// one left-to-right pass. Nesting follows the implicit HTML outline: skipped
// levels are tolerated, so an h3 directly under an h1 nests as its child.
// Ids are position-based and therefore not stable across edits that shift
// earlier content; callers must not rely on them surviving a rebuild.
func Build(headings []Heading) []*Item {
	var roots []*Item
	var stack []*Item

	for _, h := range headings {
		text := h.Text
		if strings.TrimSpace(text) == "" {
			text = UntitledSection
		}
		item := &Item{
			ID:    fmt.Sprintf("heading-%d", h.Pos),
			Text:  text,
			Level: h.Level,
			Pos:   h.Pos,
		}

		// Close every open section the new heading is not nested under,
		// including same-level siblings.
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, item)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, item)
		}
		stack = append(stack, item)
	}

	return roots
}

// Flatten returns the outline in document order with one entry per item,
// used by line-oriented renderings of the sidebar.
func Flatten(items []*Item) []*Item {
	var out []*Item
	for _, item := range items {
		out = append(out, item)
		out = append(out, Flatten(item.Children)...)
	}
	return out
}
