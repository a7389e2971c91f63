package editor

import (
	"errors"
	"testing"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/doc"
)

func TestTableSizeValidation(t *testing.T) {
	tests := []struct {
		size TableSize
		ok   bool
	}{
		{TableSize{Rows: 1, Cols: 1}, true},
		{TableSize{Rows: 3, Cols: 4}, true},
		{TableSize{Rows: 0, Cols: 2}, false},
		{TableSize{Rows: 2, Cols: 0}, false},
		{TableSize{Rows: -1, Cols: 2}, false},
		{TableSize{Rows: 101, Cols: 2}, false},
	}
	for _, tt := range tests {
		err := tt.size.Validate()
		if tt.ok && err != nil {
			t.Errorf("%+v: unexpected error %v", tt.size, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%+v: expected validation error", tt.size)
		}
	}
}

func TestInsertTableWithHeaderRow(t *testing.T) {
	s := NewSession()
	if err := s.InsertTable(TableSize{Rows: 3, Cols: 2}); err != nil {
		t.Fatalf("InsertTable failed: %v", err)
	}

	table := s.Document().Root.Content[s.Cursor()]
	if table.Type != doc.KindTable {
		t.Fatalf("cursor not on inserted table, got %s", table.Type)
	}
	if len(table.Content) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Content))
	}
	for c, cell := range table.Content[0].Content {
		if cell.Type != doc.KindTableHeader {
			t.Errorf("first row cell %d: expected header, got %s", c, cell.Type)
		}
	}
	for r := 1; r < 3; r++ {
		if len(table.Content[r].Content) != 2 {
			t.Errorf("row %d: expected 2 cells, got %d", r, len(table.Content[r].Content))
		}
		if table.Content[r].Content[0].Type != doc.KindTableCell {
			t.Errorf("row %d: expected data cells", r)
		}
	}
}

func TestInsertTableRejectsBadDimensions(t *testing.T) {
	s := NewSession()
	before := len(s.Document().Root.Content)
	if err := s.InsertTable(TableSize{Rows: 0, Cols: 3}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(s.Document().Root.Content) != before {
		t.Error("rejected insert must not change the document")
	}
}

func TestAddRowAfter(t *testing.T) {
	s := NewSession()
	if err := s.InsertTable(TableSize{Rows: 2, Cols: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddRowAfter(); err != nil {
		t.Fatalf("AddRowAfter failed: %v", err)
	}

	table := s.Document().Root.Content[s.Cursor()]
	if len(table.Content) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Content))
	}
	added := table.Content[2]
	if len(added.Content) != 3 {
		t.Errorf("new row must match table width, got %d cells", len(added.Content))
	}
	if added.Content[0].Type != doc.KindTableCell {
		t.Error("added row must use data cells")
	}
}

func TestAddColumnAfterKeepsHeaderKind(t *testing.T) {
	s := NewSession()
	if err := s.InsertTable(TableSize{Rows: 2, Cols: 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddColumnAfter(); err != nil {
		t.Fatalf("AddColumnAfter failed: %v", err)
	}

	table := s.Document().Root.Content[s.Cursor()]
	header := table.Content[0]
	if len(header.Content) != 3 || header.Content[2].Type != doc.KindTableHeader {
		t.Errorf("header row must grow a header cell: %+v", header.Content)
	}
	data := table.Content[1]
	if len(data.Content) != 3 || data.Content[2].Type != doc.KindTableCell {
		t.Errorf("data row must grow a data cell: %+v", data.Content)
	}
}

func TestDeleteTable(t *testing.T) {
	s := NewSession()
	s.InsertParagraph("before")
	if err := s.InsertTable(TableSize{Rows: 1, Cols: 1}); err != nil {
		t.Fatal(err)
	}
	if !s.InTable() {
		t.Fatal("cursor should be in the table after insert")
	}

	if err := s.DeleteTable(); err != nil {
		t.Fatalf("DeleteTable failed: %v", err)
	}
	for _, block := range s.Document().Root.Content {
		if block.Type == doc.KindTable {
			t.Error("table still present after delete")
		}
	}
	if s.InTable() {
		t.Error("cursor must leave the table")
	}
}

func TestTableCommandsOutsideTable(t *testing.T) {
	s := NewSession()
	for name, fn := range map[string]func() error{
		"AddRowAfter":    s.AddRowAfter,
		"AddColumnAfter": s.AddColumnAfter,
		"DeleteTable":    s.DeleteTable,
	} {
		if err := fn(); !errors.Is(err, ErrNotInTable) {
			t.Errorf("%s: expected ErrNotInTable, got %v", name, err)
		}
	}
}

func TestGridPicker(t *testing.T) {
	g := NewGridPicker()
	if _, ok := g.Size(); ok {
		t.Error("fresh picker must have no size")
	}

	g.Hover(3, 4)
	if !g.Highlighted(1, 1) || !g.Highlighted(3, 4) {
		t.Error("preview rectangle must cover (1,1)..(3,4)")
	}
	if g.Highlighted(4, 1) || g.Highlighted(1, 5) {
		t.Error("cells outside the rectangle must not highlight")
	}

	size, ok := g.Size()
	if !ok || size.Rows != 3 || size.Cols != 4 {
		t.Errorf("unexpected committed size: %+v ok=%v", size, ok)
	}

	g.Hover(100, 100)
	size, _ = g.Size()
	if size.Rows != g.MaxRows || size.Cols != g.MaxCols {
		t.Errorf("hover must clamp to the grid, got %+v", size)
	}

	g.Reset()
	if _, ok := g.Size(); ok {
		t.Error("reset must clear the hover state")
	}
}
