// Package editor implements the authoring session: a handle that owns one
// document instance, applies editing commands to it, and notifies listeners
// after every change so the outline sidebar stays in sync. Components never
// share a module-level editor reference; the session is passed explicitly.
package editor

import (
	"context"
	"fmt"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/doc"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/outline"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/upload"
)

// Uploader stores a file and returns the reference the inserted node carries.
type Uploader interface {
	Upload(ctx context.Context, f upload.File) (upload.Reference, error)
}

// Session owns one document for its lifetime. It is not safe for concurrent
// use; one authoring surface drives it at a time.
type Session struct {
	doc        *doc.Document
	cursor     int
	fullscreen bool
	listeners  []func(*doc.Document)
	toc        []*outline.Item
}

// NewSession starts a session on an empty document.
func NewSession() *Session {
	return Load(doc.New())
}

// Load starts a session on an existing document. A document with no blocks
// gets an empty paragraph so the cursor always has somewhere to sit.
func Load(d *doc.Document) *Session {
	if len(d.Root.Content) == 0 {
		d.Root.Content = []*doc.Node{{Type: doc.KindParagraph}}
	}
	s := &Session{doc: d}
	s.toc = outline.Build(d.Headings())
	return s
}

// Document returns the live document instance. The same pointer is returned
// for the whole session, including across fullscreen transitions.
func (s *Session) Document() *doc.Document {
	return s.doc
}

// Outline returns the outline rebuilt at the last change notification.
func (s *Session) Outline() []*outline.Item {
	return s.toc
}

// OnChange registers a listener invoked after every applied command. The
// outline has already been rebuilt when listeners run.
func (s *Session) OnChange(fn func(*doc.Document)) {
	s.listeners = append(s.listeners, fn)
}

// changed rebuilds the outline from the current snapshot and notifies
// listeners. Every mutating command ends here.
func (s *Session) changed() {
	s.toc = outline.Build(s.doc.Headings())
	for _, fn := range s.listeners {
		fn(s.doc)
	}
}

// Cursor returns the index of the block the cursor is in.
func (s *Session) Cursor() int {
	return s.cursor
}

// SetCursor moves the cursor to the given top-level block.
func (s *Session) SetCursor(block int) error {
	if block < 0 || block >= len(s.doc.Root.Content) {
		return fmt.Errorf("set cursor: block %d out of range [0,%d)", block, len(s.doc.Root.Content))
	}
	s.cursor = block
	return nil
}

func (s *Session) cursorBlock() *doc.Node {
	return s.doc.Root.Content[s.cursor]
}

// insertBlocksAfterCursor splices blocks in after the cursor block and leaves
// the cursor on the last inserted one.
func (s *Session) insertBlocksAfterCursor(blocks ...*doc.Node) {
	at := s.cursor + 1
	content := s.doc.Root.Content
	rest := append([]*doc.Node{}, content[at:]...)
	s.doc.Root.Content = append(append(content[:at], blocks...), rest...)
	s.cursor = at + len(blocks) - 1
}

// InsertParagraph inserts a paragraph after the cursor block.
func (s *Session) InsertParagraph(text string) {
	var inline []*doc.Node
	if text != "" {
		inline = []*doc.Node{doc.Text(text)}
	}
	s.insertBlocksAfterCursor(&doc.Node{Type: doc.KindParagraph, Content: inline})
	s.changed()
}

// InsertHeading inserts a heading after the cursor block. Levels outside 1..6
// are clamped.
func (s *Session) InsertHeading(level int, text string) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	var inline []*doc.Node
	if text != "" {
		inline = []*doc.Node{doc.Text(text)}
	}
	s.insertBlocksAfterCursor(doc.Heading(level, inline...))
	s.changed()
}

// InsertAttachment inserts an attachment node after the cursor block. Images
// with a source also get a trailing empty paragraph so typing can continue
// below the image without manual navigation.
func (s *Session) InsertAttachment(a doc.Attachment) {
	node := doc.NewAttachmentNode(a)
	if a.Kind == doc.AttachmentImage && a.Src != "" {
		s.insertBlocksAfterCursor(node, &doc.Node{Type: doc.KindParagraph})
	} else {
		s.insertBlocksAfterCursor(node)
	}
	s.changed()
}

// UploadOutcome reports one file's result from InsertUploads.
type UploadOutcome struct {
	FileName string
	TempID   string
	Err      error
}

// InsertUploads uploads each file in order and inserts an attachment node per
// success, in selection order. Image files carry an inline preview built from
// the local bytes so the image shows before the server copy is reachable. A
// failed upload inserts nothing and does not block the remaining files.
func (s *Session) InsertUploads(ctx context.Context, up Uploader, files []upload.File) []UploadOutcome {
	outcomes := make([]UploadOutcome, 0, len(files))
	for _, f := range files {
		ref, err := up.Upload(ctx, f)
		if err != nil {
			outcomes = append(outcomes, UploadOutcome{FileName: f.Name, Err: err})
			continue
		}
		a := doc.Attachment{
			FileName: f.Name,
			Kind:     doc.KindForMIME(f.MIME),
			TempID:   ref.TempID,
		}
		if a.Kind == doc.AttachmentImage {
			a.Src = upload.DataURL(f)
		}
		s.InsertAttachment(a)
		outcomes = append(outcomes, UploadOutcome{FileName: f.Name, TempID: ref.TempID})
	}
	return outcomes
}

// SetTextAlign sets the alignment attr on the cursor block. Paragraphs and
// headings only; other blocks are left alone.
func (s *Session) SetTextAlign(align string) {
	block := s.cursorBlock()
	switch block.Type {
	case doc.KindParagraph, doc.KindHeading:
	default:
		return
	}
	if block.Attrs == nil {
		block.Attrs = map[string]any{}
	}
	if align == "" || align == "left" {
		delete(block.Attrs, "textAlign")
	} else {
		block.Attrs["textAlign"] = align
	}
	s.changed()
}

// ApplyMark adds a mark to every text node in the cursor block.
func (s *Session) ApplyMark(m doc.Mark) {
	s.cursorBlock().Walk(func(n *doc.Node) bool {
		if n.Type != doc.KindText {
			return true
		}
		for _, existing := range n.Marks {
			if existing.Type == m.Type {
				return true
			}
		}
		n.Marks = append(n.Marks, m)
		return true
	})
	s.changed()
}

// RemoveMark strips a mark type from every text node in the cursor block.
func (s *Session) RemoveMark(t doc.MarkType) {
	s.cursorBlock().Walk(func(n *doc.Node) bool {
		if n.Type != doc.KindText {
			return true
		}
		kept := n.Marks[:0]
		for _, m := range n.Marks {
			if m.Type != t {
				kept = append(kept, m)
			}
		}
		n.Marks = kept
		return true
	})
	s.changed()
}

// SetFontSize applies an inline font-size mark to the cursor block. An empty
// size clears the mark.
func (s *Session) SetFontSize(size string) {
	if size == "" {
		s.RemoveMark(doc.MarkFontSize)
		return
	}
	s.RemoveMark(doc.MarkFontSize)
	s.ApplyMark(doc.Mark{Type: doc.MarkFontSize, Attrs: map[string]any{"size": size}})
}

// EnterFullscreen switches to the fullscreen presentation. The document is
// the same instance; nothing is reset.
func (s *Session) EnterFullscreen() {
	s.fullscreen = true
}

// ExitFullscreen returns to the inline presentation.
func (s *Session) ExitFullscreen() {
	s.fullscreen = false
}

// Fullscreen reports the current presentation mode.
func (s *Session) Fullscreen() bool {
	return s.fullscreen
}
