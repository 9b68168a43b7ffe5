// Package segment implements the three physical column segment variants —
// mutable value segments, immutable dictionary-compressed segments, and
// logical reference segments — behind one untyped Segment interface, plus
// the attribute vector that backs dictionary segments.
//
// Semantics are grounded on original_source/src/lib/storage (the Hyrise
// teaching project this engine's spec distills); Go idiom (generics over
// the element type, explicit (T, error) returns instead of exceptions,
// sort.Search instead of std::lower_bound) follows the wider pack's style
// of small, explicitly-constructed, explicitly-erroring data types.
package segment

import (
	"errors"
	"math"

	"columnstore/internal/coltype"
)

// ErrOutOfBounds is returned when an index exceeds the addressed
// container's size.
var ErrOutOfBounds = errors.New("segment: index out of bounds")

// ErrDictionaryTooLarge is returned when a value segment has 2^32-1 or more
// distinct values, which no attribute vector width can address while
// keeping its top value free for InvalidValueID.
var ErrDictionaryTooLarge = errors.New("segment: dictionary too large")

// ValueID is a dictionary index. INVALID_VALUE_ID is the sentinel for
// "value not present"; it equals the maximum value of the widest
// representation (uint32) and, on narrowing to uint16 or uint8, remains
// the maximum value of the narrower type — so a dictionary's "not found"
// response is portable across attribute-vector widths without any
// explicit translation.
type ValueID uint32

// InvalidValueID is the sentinel ValueID meaning "value not present".
const InvalidValueID ValueID = math.MaxUint32

// RowID names one row within a specific table: the chunk it lives in and
// its offset within that chunk.
type RowID struct {
	ChunkID     int
	ChunkOffset int
}

// PosList is an ordered sequence of RowIDs. Reference segments of one
// output chunk hold a pointer to the same PosList value so that N output
// columns share one position list rather than N copies; compare pointers
// (not contents) to test that sharing.
type PosList []RowID

// Segment is the uniform, untyped interface every column segment variant
// implements. Append is legal on every variant for interface uniformity,
// but is a documented no-op on DictionarySegment and ReferenceSegment.
type Segment interface {
	// Size returns the number of elements in the segment.
	Size() int
	// Get returns the value at offset as an untyped Variant.
	// Returns ErrOutOfBounds if offset >= Size().
	Get(offset int) (coltype.Variant, error)
	// Append converts v and appends it. No-op on immutable variants.
	Append(v coltype.Variant) error
	// EstimateMemoryUsage returns an approximate byte cost for the segment.
	EstimateMemoryUsage() int
}

// ChunkAccessor is the minimal surface a ReferenceSegment needs from the
// chunk holding the column it indirects through. storage.Chunk implements
// this directly (its Segment method has this exact signature) so this
// package does not need to import storage.
type ChunkAccessor interface {
	Segment(columnID int) (Segment, error)
}

// TableAccessor is the minimal surface a ReferenceSegment needs from its
// referenced table. storage.Table implements this directly.
type TableAccessor interface {
	Chunk(chunkID int) (ChunkAccessor, error)
}
