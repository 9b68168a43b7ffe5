package segment

import "columnstore/internal/coltype"

// ValueSegment is the only mutable segment variant: a growable,
// contiguous, typed column of T. Append is O(1) amortised.
type ValueSegment[T coltype.Elem] struct {
	values []T
}

// NewValueSegment returns an empty value segment backed by T.
func NewValueSegment[T coltype.Elem]() *ValueSegment[T] {
	return &ValueSegment[T]{}
}

// Values exposes the contiguous backing sequence for typed fast paths
// (e.g. the naive table-scan strategy over value segments).
func (s *ValueSegment[T]) Values() []T { return s.values }

func (s *ValueSegment[T]) Size() int { return len(s.values) }

func (s *ValueSegment[T]) Get(offset int) (coltype.Variant, error) {
	if offset < 0 || offset >= len(s.values) {
		return coltype.Variant{}, ErrOutOfBounds
	}
	return coltype.Of(s.values[offset]), nil
}

// Append converts v to T and pushes it, failing with coltype.ErrTypeMismatch
// if v does not carry T.
func (s *ValueSegment[T]) Append(v coltype.Variant) error {
	t, err := coltype.As[T](v)
	if err != nil {
		return err
	}
	s.values = append(s.values, t)
	return nil
}

// EstimateMemoryUsage approximates the backing buffer's byte size.
func (s *ValueSegment[T]) EstimateMemoryUsage() int {
	var zero T
	return len(s.values) * sizeOf(zero)
}

// sizeOf returns sizeof(T) for the supported element types. string is
// approximated by its header plus content, since Go strings are not
// fixed-width.
func sizeOf[T coltype.Elem](zero T) int {
	switch v := any(zero).(type) {
	case int32:
		return 4
	case int64:
		return 8
	case float32:
		return 4
	case float64:
		return 8
	case string:
		return 16 + len(v)
	default:
		return 0
	}
}

var _ Segment = (*ValueSegment[int32])(nil)
