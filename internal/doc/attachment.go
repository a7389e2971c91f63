package doc

// AttachmentKind classifies an embedded file, derived from its MIME type at
// selection time.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentVideo AttachmentKind = "video"
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentFile  AttachmentKind = "file"
)

// Attachment holds the attributes of an attachment node. TempID correlates
// the inline node with its upload and with the sidebar list entry. Src,
// Width, and Height are only meaningful for images.
type Attachment struct {
	FileName string
	Kind     AttachmentKind
	TempID   string
	Src      string
	Width    int
	Height   int
}

// KindForMIME derives the attachment kind from a MIME type.
func KindForMIME(mime string) AttachmentKind {
	switch {
	case len(mime) >= 6 && mime[:6] == "image/":
		return AttachmentImage
	case len(mime) >= 6 && mime[:6] == "video/":
		return AttachmentVideo
	case mime == "application/pdf":
		return AttachmentPDF
	default:
		return AttachmentFile
	}
}

// NewAttachmentNode builds the atomic inline node for an attachment.
func NewAttachmentNode(a Attachment) *Node {
	attrs := map[string]any{
		"fileName": a.FileName,
		"kind":     string(a.Kind),
	}
	if a.TempID != "" {
		attrs["tempId"] = a.TempID
	}
	if a.Src != "" {
		attrs["src"] = a.Src
	}
	if a.Width > 0 {
		attrs["width"] = a.Width
	}
	if a.Height > 0 {
		attrs["height"] = a.Height
	}
	return &Node{Type: KindAttachment, Attrs: attrs}
}

// Attachment decodes the node's attachment attributes. The bool is false for
// non-attachment nodes.
func (n *Node) Attachment() (Attachment, bool) {
	if n.Type != KindAttachment {
		return Attachment{}, false
	}
	a := Attachment{
		FileName: n.strAttr("fileName"),
		Kind:     AttachmentKind(n.strAttr("kind")),
		TempID:   n.strAttr("tempId"),
		Src:      n.strAttr("src"),
		Width:    n.intAttr("width", 0),
		Height:   n.intAttr("height", 0),
	}
	if a.Kind == "" {
		a.Kind = AttachmentFile
	}
	return a, true
}

// SetWidth persists a resize back into the node's attributes, the way the
// corner handle does on release.
func (n *Node) SetWidth(width int) {
	if n.Type != KindAttachment || width <= 0 {
		return
	}
	if n.Attrs == nil {
		n.Attrs = map[string]any{}
	}
	n.Attrs["width"] = width
}
