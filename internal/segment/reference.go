package segment

import "columnstore/internal/coltype"

// ReferenceSegment is a logical segment: it owns no data of its own, only
// a (referenced table, referenced column, position list) triple. It is
// the only segment variant every table-scan produces.
type ReferenceSegment struct {
	referencedTable    TableAccessor
	referencedColumnID int
	posList            *PosList
}

// NewReferenceSegment constructs a reference segment over posList, which
// is shared (not copied) so that sibling reference segments of one output
// chunk can point at the same PosList value.
func NewReferenceSegment(referencedTable TableAccessor, referencedColumnID int, posList *PosList) *ReferenceSegment {
	return &ReferenceSegment{
		referencedTable:    referencedTable,
		referencedColumnID: referencedColumnID,
		posList:            posList,
	}
}

func (r *ReferenceSegment) Size() int { return len(*r.posList) }

// Get resolves posList[offset] = (chunkID, chunkOffset), fetches the
// segment at ReferencedColumnID of that chunk in ReferencedTable, and
// returns its value at chunkOffset.
func (r *ReferenceSegment) Get(offset int) (coltype.Variant, error) {
	if offset < 0 || offset >= len(*r.posList) {
		return coltype.Variant{}, ErrOutOfBounds
	}
	row := (*r.posList)[offset]
	chunk, err := r.referencedTable.Chunk(row.ChunkID)
	if err != nil {
		return coltype.Variant{}, err
	}
	seg, err := chunk.Segment(r.referencedColumnID)
	if err != nil {
		return coltype.Variant{}, err
	}
	return seg.Get(row.ChunkOffset)
}

// Append is a no-op: reference segments store no data of their own.
func (r *ReferenceSegment) Append(coltype.Variant) error { return nil }

// PosList returns the shared position list. Compare the returned pointer
// (not its contents) to test whether two reference segments share one
// PosList object.
func (r *ReferenceSegment) PosList() *PosList { return r.posList }

// ReferencedTable returns the table this segment indirects through.
func (r *ReferenceSegment) ReferencedTable() TableAccessor { return r.referencedTable }

// ReferencedColumnID returns the column this segment indirects through.
func (r *ReferenceSegment) ReferencedColumnID() int { return r.referencedColumnID }

// EstimateMemoryUsage = size() * sizeof(RowID).
func (r *ReferenceSegment) EstimateMemoryUsage() int {
	const rowIDSize = 16 // two platform ints, conservatively 8 bytes each
	return r.Size() * rowIDSize
}

var _ Segment = (*ReferenceSegment)(nil)
