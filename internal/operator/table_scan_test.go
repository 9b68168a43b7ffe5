package operator

import (
	"context"
	"testing"

	"columnstore/internal/coltype"
	"columnstore/internal/segment"
	"columnstore/internal/storage"
)

func buildS3Table(t *testing.T) *storage.Table {
	t.Helper()
	tb := storage.New(storage.Config{TargetChunkSize: 2})
	if err := tb.AddColumn("a", "int"); err != nil {
		t.Fatalf("AddColumn a: %v", err)
	}
	if err := tb.AddColumn("b", "string"); err != nil {
		t.Fatalf("AddColumn b: %v", err)
	}
	rows := []struct {
		a int32
		b string
	}{
		{1, "x"}, {2, "y"}, {3, "x"}, {4, "y"}, {5, "x"},
	}
	for _, r := range rows {
		if err := tb.Append([]coltype.Variant{coltype.NewInt(r.a), coltype.NewString(r.b)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return tb
}

func readRow(t *testing.T, out *storage.Table, chunkID, offset int) (int32, string) {
	t.Helper()
	c, err := out.GetChunk(chunkID)
	if err != nil {
		t.Fatalf("GetChunk(%d): %v", chunkID, err)
	}
	aSeg, err := c.Segment(0)
	if err != nil {
		t.Fatalf("Segment(0): %v", err)
	}
	bSeg, err := c.Segment(1)
	if err != nil {
		t.Fatalf("Segment(1): %v", err)
	}
	av, err := aSeg.Get(offset)
	if err != nil {
		t.Fatalf("a.Get(%d): %v", offset, err)
	}
	bv, err := bSeg.Get(offset)
	if err != nil {
		t.Fatalf("b.Get(%d): %v", offset, err)
	}
	a, err := coltype.As[int32](av)
	if err != nil {
		t.Fatalf("As[int32]: %v", err)
	}
	b, err := coltype.As[string](bv)
	if err != nil {
		t.Fatalf("As[string]: %v", err)
	}
	return a, b
}

// Scenario S4.
func TestTableScanEqualsOnValueSegment(t *testing.T) {
	tb := buildS3Table(t)
	wrapper := NewTableWrapper(tb)
	if err := wrapper.Execute(); err != nil {
		t.Fatalf("wrapper.Execute: %v", err)
	}

	scan := NewTableScan(wrapper, 0, Equals, coltype.NewInt(3), nil)
	if err := scan.Execute(); err != nil {
		t.Fatalf("scan.Execute: %v", err)
	}

	out, err := scan.GetOutput()
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}
	if out.ColumnCount() != 2 {
		t.Fatalf("ColumnCount() = %d, want 2", out.ColumnCount())
	}
	if out.RowCount() != 1 {
		t.Fatalf("RowCount() = %d, want 1", out.RowCount())
	}
	if out.ChunkCount() != 1 {
		t.Fatalf("ChunkCount() = %d, want 1", out.ChunkCount())
	}

	c, err := out.GetChunk(0)
	if err != nil {
		t.Fatalf("GetChunk(0): %v", err)
	}
	seg0, err := c.Segment(0)
	if err != nil {
		t.Fatalf("Segment(0): %v", err)
	}
	ref, ok := seg0.(*segment.ReferenceSegment)
	if !ok {
		t.Fatalf("Segment(0) is %T, want *segment.ReferenceSegment", seg0)
	}
	pl := ref.PosList()
	if len(*pl) != 1 || (*pl)[0] != (segment.RowID{ChunkID: 1, ChunkOffset: 0}) {
		t.Fatalf("PosList() = %v, want [(1,0)]", *pl)
	}

	a, b := readRow(t, out, 0, 0)
	if a != 3 || b != "x" {
		t.Fatalf("row = (%d, %q), want (3, \"x\")", a, b)
	}
}

func TestTableScanOutputSegmentsShareOnePosList(t *testing.T) {
	tb := buildS3Table(t)
	wrapper := NewTableWrapper(tb)
	_ = wrapper.Execute()

	scan := NewTableScan(wrapper, 0, GreaterThanEquals, coltype.NewInt(2), nil)
	if err := scan.Execute(); err != nil {
		t.Fatalf("scan.Execute: %v", err)
	}
	out, _ := scan.GetOutput()

	for ci := 0; ci < out.ChunkCount(); ci++ {
		c, err := out.GetChunk(ci)
		if err != nil {
			t.Fatalf("GetChunk(%d): %v", ci, err)
		}
		segA, _ := c.Segment(0)
		segB, _ := c.Segment(1)
		refA := segA.(*segment.ReferenceSegment)
		refB := segB.(*segment.ReferenceSegment)
		if refA.PosList() != refB.PosList() {
			t.Fatalf("chunk %d: sibling reference segments do not share a PosList pointer", ci)
		}
	}
}

// Scenario S5: scan identically over a value chunk and its
// dictionary-compressed counterpart.
func TestTableScanValueAndDictionaryAgree(t *testing.T) {
	tbValue := buildS3Table(t)
	tbDict := buildS3Table(t)
	if err := tbDict.CompressChunk(context.Background(), 0); err != nil {
		t.Fatalf("CompressChunk: %v", err)
	}

	scanValue := func(tb *storage.Table) []string {
		w := NewTableWrapper(tb)
		_ = w.Execute()
		s := NewTableScan(w, 0, GreaterThan, coltype.NewInt(1), nil)
		if err := s.Execute(); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		out, _ := s.GetOutput()
		var rows []string
		for ci := 0; ci < out.ChunkCount(); ci++ {
			c, _ := out.GetChunk(ci)
			for i := 0; i < c.Size(); i++ {
				a, b := readRow(t, out, ci, i)
				rows = append(rows, string(rune('0'+a))+b)
			}
		}
		return rows
	}

	gotValue := scanValue(tbValue)
	gotDict := scanValue(tbDict)

	want := []string{"2y", "3x", "4y", "5x"}
	if len(gotValue) != len(want) || len(gotDict) != len(want) {
		t.Fatalf("row counts differ: value=%v dict=%v want=%v", gotValue, gotDict, want)
	}
	for i := range want {
		if gotValue[i] != want[i] {
			t.Fatalf("value-scan row %d = %q, want %q", i, gotValue[i], want[i])
		}
		if gotDict[i] != want[i] {
			t.Fatalf("dict-scan row %d = %q, want %q", i, gotDict[i], want[i])
		}
	}
}

// Scenario S6: chained scans must flatten to the original table.
func TestTableScanChainFlattensToOriginalTable(t *testing.T) {
	tb := buildS3Table(t)
	w := NewTableWrapper(tb)
	_ = w.Execute()

	first := NewTableScan(w, 0, GreaterThanEquals, coltype.NewInt(2), nil)
	if err := first.Execute(); err != nil {
		t.Fatalf("first.Execute: %v", err)
	}
	firstWrapped := &executedWrapper{op: first}

	second := NewTableScan(firstWrapped, 1, Equals, coltype.NewString("y"), nil)
	if err := second.Execute(); err != nil {
		t.Fatalf("second.Execute: %v", err)
	}
	out, err := second.GetOutput()
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}

	var rows []string
	var refTables []segment.TableAccessor
	for ci := 0; ci < out.ChunkCount(); ci++ {
		c, _ := out.GetChunk(ci)
		for i := 0; i < c.Size(); i++ {
			a, b := readRow(t, out, ci, i)
			rows = append(rows, string(rune('0'+a))+b)
		}
		seg0, _ := c.Segment(0)
		ref := seg0.(*segment.ReferenceSegment)
		refTables = append(refTables, ref.ReferencedTable())
	}

	want := []string{"2y", "4y"}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
	for _, rt := range refTables {
		if rt != segment.TableAccessor(tb) {
			t.Fatalf("referenced table is not the original input table")
		}
	}
}

// executedWrapper adapts an already-executed Operator so it can be wired
// in as another operator's upstream input without re-executing it.
type executedWrapper struct {
	op Operator
}

func (e *executedWrapper) Execute() error                     { return nil }
func (e *executedWrapper) GetOutput() (*storage.Table, error) { return e.op.GetOutput() }

var _ Operator = (*executedWrapper)(nil)

func TestTableScanEmptyInputProducesSchemaOnlyOutput(t *testing.T) {
	tb := storage.New(storage.Config{TargetChunkSize: 10})
	if err := tb.AddColumn("a", "int"); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	w := NewTableWrapper(tb)
	_ = w.Execute()

	scan := NewTableScan(w, 0, Equals, coltype.NewInt(1), nil)
	if err := scan.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out, err := scan.GetOutput()
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}
	if out.ColumnCount() != 1 {
		t.Fatalf("ColumnCount() = %d, want 1", out.ColumnCount())
	}
	if out.RowCount() != 0 {
		t.Fatalf("RowCount() = %d, want 0", out.RowCount())
	}
}

func TestTableScanExecuteTwiceFails(t *testing.T) {
	tb := storage.New(storage.Config{TargetChunkSize: 10})
	_ = tb.AddColumn("a", "int")
	w := NewTableWrapper(tb)
	_ = w.Execute()

	scan := NewTableScan(w, 0, Equals, coltype.NewInt(1), nil)
	if err := scan.Execute(); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if err := scan.Execute(); err == nil {
		t.Fatalf("second Execute: expected ErrAlreadyExecuted, got nil")
	}
}

func TestTableScanGetOutputBeforeExecuteFails(t *testing.T) {
	tb := storage.New(storage.Config{TargetChunkSize: 10})
	_ = tb.AddColumn("a", "int")
	w := NewTableWrapper(tb)
	_ = w.Execute()
	scan := NewTableScan(w, 0, Equals, coltype.NewInt(1), nil)
	if _, err := scan.GetOutput(); err == nil {
		t.Fatalf("expected ErrNotExecuted, got nil")
	}
}
