package editor

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/doc"
)

// ErrNotInTable is returned by table commands when the cursor block is not a
// table.
var ErrNotInTable = errors.New("cursor is not inside a table")

// maxTableDim bounds custom-size table input.
const maxTableDim = 100

// TableSize is the custom-size dialog input: independent row and column
// counts, both at least 1.
type TableSize struct {
	Rows int
	Cols int
}

// Validate rejects malformed dimensions at the input boundary, before any
// command runs.
func (t TableSize) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Rows, validation.Required, validation.Min(1), validation.Max(maxTableDim)),
		validation.Field(&t.Cols, validation.Required, validation.Min(1), validation.Max(maxTableDim)),
	)
}

// InsertTable inserts a rows-by-cols table after the cursor block. The first
// row is a header row.
func (s *Session) InsertTable(size TableSize) error {
	if err := size.Validate(); err != nil {
		return fmt.Errorf("insert table: %w", err)
	}

	table := &doc.Node{Type: doc.KindTable}
	for r := 0; r < size.Rows; r++ {
		kind := doc.KindTableCell
		if r == 0 {
			kind = doc.KindTableHeader
		}
		table.Content = append(table.Content, newTableRow(kind, size.Cols))
	}
	s.insertBlocksAfterCursor(table)
	s.changed()
	return nil
}

func newTableRow(kind doc.Kind, cols int) *doc.Node {
	row := &doc.Node{Type: doc.KindTableRow}
	for c := 0; c < cols; c++ {
		row.Content = append(row.Content, &doc.Node{
			Type:    kind,
			Content: []*doc.Node{{Type: doc.KindParagraph}},
		})
	}
	return row
}

// InTable reports whether the cursor block is a table, which is what gates
// the contextual table menus.
func (s *Session) InTable() bool {
	return s.cursorBlock().Type == doc.KindTable
}

func (s *Session) cursorTable() (*doc.Node, error) {
	block := s.cursorBlock()
	if block.Type != doc.KindTable {
		return nil, ErrNotInTable
	}
	return block, nil
}

// AddRowAfter appends a data row to the table under the cursor, matching the
// width of the last row.
func (s *Session) AddRowAfter() error {
	table, err := s.cursorTable()
	if err != nil {
		return err
	}
	cols := 1
	if len(table.Content) > 0 {
		cols = len(table.Content[len(table.Content)-1].Content)
	}
	table.Content = append(table.Content, newTableRow(doc.KindTableCell, cols))
	s.changed()
	return nil
}

// AddColumnAfter appends a cell to every row of the table under the cursor.
// Header rows get a header cell.
func (s *Session) AddColumnAfter() error {
	table, err := s.cursorTable()
	if err != nil {
		return err
	}
	for _, row := range table.Content {
		kind := doc.KindTableCell
		if len(row.Content) > 0 && row.Content[0].Type == doc.KindTableHeader {
			kind = doc.KindTableHeader
		}
		row.Content = append(row.Content, &doc.Node{
			Type:    kind,
			Content: []*doc.Node{{Type: doc.KindParagraph}},
		})
	}
	s.changed()
	return nil
}

// DeleteTable removes the table under the cursor. The cursor lands on the
// previous block, or on the empty paragraph left behind when the table was
// the only block.
func (s *Session) DeleteTable() error {
	if _, err := s.cursorTable(); err != nil {
		return err
	}
	content := s.doc.Root.Content
	s.doc.Root.Content = append(content[:s.cursor], content[s.cursor+1:]...)
	if len(s.doc.Root.Content) == 0 {
		s.doc.Root.Content = []*doc.Node{{Type: doc.KindParagraph}}
	}
	if s.cursor >= len(s.doc.Root.Content) {
		s.cursor = len(s.doc.Root.Content) - 1
	}
	s.changed()
	return nil
}
