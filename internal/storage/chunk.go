package storage

import (
	"sync"

	"columnstore/internal/coltype"
	"columnstore/internal/segment"
)

// Chunk is an ordered sequence of segments, all of equal Size. Its column
// count is the number of segments added so far; AddSegment does not check
// it against an earlier count.
//
// Every method takes the chunk's reader/writer lock: the mutating
// operations (AddSegment, ReplaceSegment, Append) hold it for writing, so
// they are serialised with respect to each other; Segment, ColumnCount and
// Size hold it for reading. Compression holds it for writing.
type Chunk struct {
	mu       sync.RWMutex
	segments []segment.Segment
}

// NewChunk returns an empty chunk with no segments yet.
func NewChunk() *Chunk {
	return &Chunk{}
}

// AddSegment appends seg as the next column's segment.
func (c *Chunk) AddSegment(seg segment.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.segments = append(c.segments, seg)
}

// ReplaceSegment overwrites the segment at columnID.
func (c *Chunk) ReplaceSegment(columnID int, seg segment.Segment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if columnID < 0 || columnID >= len(c.segments) {
		return ErrNotFound
	}
	c.segments[columnID] = seg
	return nil
}

// Segment returns the segment at columnID. This is the exact signature
// segment.ChunkAccessor requires, so *Chunk satisfies it structurally.
func (c *Chunk) Segment(columnID int) (segment.Segment, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if columnID < 0 || columnID >= len(c.segments) {
		return nil, ErrNotFound
	}
	return c.segments[columnID], nil
}

// ColumnCount returns the number of segments in the chunk.
func (c *Chunk) ColumnCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.segments)
}

// Size returns the size of segment 0, or 0 if the chunk has no segments.
func (c *Chunk) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.segments) == 0 {
		return 0
	}
	return c.segments[0].Size()
}

// Append appends one value to each of the chunk's segments, in column
// order. Fails with ErrColumnCountMismatch if len(values) != ColumnCount,
// or propagates the first segment's Append error (e.g. coltype.ErrTypeMismatch
// if a value's type doesn't match its column, surfaced when the chunk holds
// un-compressed value segments).
func (c *Chunk) Append(values []coltype.Variant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(values) != len(c.segments) {
		return ErrColumnCountMismatch
	}
	for i, v := range values {
		if err := c.segments[i].Append(v); err != nil {
			return err
		}
	}
	return nil
}

var _ segment.ChunkAccessor = (*Chunk)(nil)
