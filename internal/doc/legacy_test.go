package doc

import (
	"strings"
	"testing"
)

func firstAttachment(d *Document) (Attachment, bool) {
	var found Attachment
	ok := false
	d.Root.Walk(func(n *Node) bool {
		if ok {
			return false
		}
		if a, isAtt := n.Attachment(); isAtt {
			found, ok = a, true
			return false
		}
		return true
	})
	return found, ok
}

func TestParseHTMLBasicBlocks(t *testing.T) {
	d, err := ParseHTML(`<h2>Title</h2><p>Hello <strong>world</strong></p>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if len(d.Root.Content) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(d.Root.Content))
	}
	h := d.Root.Content[0]
	if h.Type != KindHeading || h.Level() != 2 || h.PlainText() != "Title" {
		t.Errorf("unexpected heading: %+v", h)
	}
	p := d.Root.Content[1]
	if p.Type != KindParagraph {
		t.Fatalf("expected paragraph, got %s", p.Type)
	}
	bold := p.Content[len(p.Content)-1]
	if len(bold.Marks) != 1 || bold.Marks[0].Type != MarkBold {
		t.Errorf("expected bold mark on %q, got %+v", bold.Text, bold.Marks)
	}
}

func TestParseHTMLNativeAttachmentDiv(t *testing.T) {
	d, err := ParseHTML(`<div class="kh-attachment" data-kind="pdf" data-file-name="spec.pdf" data-temp-id="t-1"><span class="kh-attachment-chip">spec.pdf (pdf)</span></div>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	a, ok := firstAttachment(d)
	if !ok {
		t.Fatal("expected attachment node")
	}
	if a.Kind != AttachmentPDF || a.FileName != "spec.pdf" || a.TempID != "t-1" {
		t.Errorf("unexpected attachment: %+v", a)
	}
}

func TestParseHTMLNativeDivWithBogusKindIsNotConverted(t *testing.T) {
	d, err := ParseHTML(`<div data-kind="spreadsheet" data-file-name="x.xlsx"><p>inner</p></div>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if _, ok := firstAttachment(d); ok {
		t.Error("unknown kind must not produce an attachment node")
	}
	// Falls through to default handling: the inner paragraph survives.
	if d.PlainText() != "inner" {
		t.Errorf("expected inner content preserved, got %q", d.PlainText())
	}
}

func TestParseHTMLVideoWrapperSpan(t *testing.T) {
	d, err := ParseHTML(`<span class="attachment-wrapper"><a href="/files/demo%20reel.MP4?x=1">watch</a></span>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	a, ok := firstAttachment(d)
	if !ok {
		t.Fatal("expected video attachment from wrapper span")
	}
	if a.Kind != AttachmentVideo {
		t.Errorf("expected video kind, got %s", a.Kind)
	}
	if a.FileName != "demo reel.MP4" {
		t.Errorf("expected decoded filename without query string, got %q", a.FileName)
	}
}

func TestParseHTMLVideoWrapperExtensions(t *testing.T) {
	for _, ext := range []string{"mp4", "mov", "avi", "webm", "MOV", "WebM"} {
		src := `<span><a href="/media/clip.` + ext + `">clip</a></span>`
		d, err := ParseHTML(src)
		if err != nil {
			t.Fatalf("ParseHTML failed for %s: %v", ext, err)
		}
		if _, ok := firstAttachment(d); !ok {
			t.Errorf("expected attachment for extension %q", ext)
		}
	}
}

func TestParseHTMLNonVideoLinkFallsThrough(t *testing.T) {
	d, err := ParseHTML(`<span><a href="/files/notes.docx">notes</a></span>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if _, ok := firstAttachment(d); ok {
		t.Error(".docx link must not become an attachment")
	}
	// Default handling keeps it as a linked text run.
	var link *Node
	d.Root.Walk(func(n *Node) bool {
		if n.Type == KindText && len(n.Marks) > 0 && n.Marks[0].Type == MarkLink {
			link = n
			return false
		}
		return true
	})
	if link == nil {
		t.Fatal("expected link mark preserved for non-video wrapper")
	}
	if link.Text != "notes" {
		t.Errorf("unexpected link text %q", link.Text)
	}
}

func TestParseHTMLPDFMacro(t *testing.T) {
	d, err := ParseHTML(`<div data-macro-name="viewpdf"><div class="macro-body"><span data-attachment-name="handbook.pdf"></span></div></div>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	a, ok := firstAttachment(d)
	if !ok {
		t.Fatal("expected pdf attachment from macro div")
	}
	if a.Kind != AttachmentPDF || a.FileName != "handbook.pdf" {
		t.Errorf("unexpected attachment: %+v", a)
	}
}

func TestParseHTMLPDFMacroWithoutNameIsNotConverted(t *testing.T) {
	d, err := ParseHTML(`<div data-macro-name="viewpdf"><p>broken macro</p></div>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if _, ok := firstAttachment(d); ok {
		t.Error("macro without attachment name must not produce a node")
	}
	if !strings.Contains(d.PlainText(), "broken macro") {
		t.Errorf("expected macro body preserved, got %q", d.PlainText())
	}
}

func TestParseHTMLTable(t *testing.T) {
	d, err := ParseHTML(`<table><thead><tr><th>Name</th></tr></thead><tbody><tr><td>Ada</td></tr></tbody></table>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	table := d.Root.Content[0]
	if table.Type != KindTable || len(table.Content) != 2 {
		t.Fatalf("expected table with 2 rows, got %+v", table)
	}
	if table.Content[0].Content[0].Type != KindTableHeader {
		t.Errorf("expected header cell in first row")
	}
	if table.Content[1].Content[0].Type != KindTableCell {
		t.Errorf("expected data cell in second row")
	}
}

func TestParseHTMLFontSizeSpan(t *testing.T) {
	d, err := ParseHTML(`<p><span style="font-size: 18px">sized</span></p>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	text := d.Root.Content[0].Content[0]
	if len(text.Marks) != 1 || text.Marks[0].Type != MarkFontSize {
		t.Fatalf("expected fontSize mark, got %+v", text.Marks)
	}
	if size, _ := text.Marks[0].Attrs["size"].(string); size != "18px" {
		t.Errorf("expected size 18px, got %q", size)
	}
}

func TestParseHTMLEmptyInputYieldsEmptyParagraph(t *testing.T) {
	d, err := ParseHTML("")
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if len(d.Root.Content) != 1 || d.Root.Content[0].Type != KindParagraph {
		t.Errorf("expected single empty paragraph, got %+v", d.Root.Content)
	}
}

func TestRenderParseRoundTripForAttachments(t *testing.T) {
	original := NewAttachmentNode(Attachment{
		FileName: "notes.pdf",
		Kind:     AttachmentPDF,
		TempID:   "t-7",
	})
	html := renderOne(original)

	d, err := ParseHTML(html)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	a, ok := firstAttachment(d)
	if !ok {
		t.Fatal("expected attachment to survive round trip")
	}
	if a.FileName != "notes.pdf" || a.Kind != AttachmentPDF || a.TempID != "t-7" {
		t.Errorf("round trip lost attributes: %+v", a)
	}
}
