package segment

import (
	"slices"
	"sort"

	"columnstore/internal/coltype"
)

// DictionarySegment is an immutable segment: a sorted, unique dictionary
// of T plus an attribute vector mapping row offset -> ValueID. Append is a
// documented no-op, preserving the uniform Segment interface.
type DictionarySegment[T coltype.Elem] struct {
	dictionary []T
	attrs      AttributeVector
}

// NewDictionarySegment builds a dictionary segment from any existing
// segment (value, dictionary, or reference) by:
//  1. collecting the set of distinct T-typed values from base,
//  2. sorting them ascending to form the dictionary,
//  3. choosing the attribute-vector width from the dictionary size, and
//  4. binary-searching the dictionary for each row of base to fill the
//     attribute vector.
//
// Returns ErrDictionaryTooLarge if base has 2^32-1 or more distinct
// values.
func NewDictionarySegment[T coltype.Elem](base Segment) (*DictionarySegment[T], error) {
	n := base.Size()

	seen := make(map[T]struct{})
	dict := make([]T, 0, n)
	for i := range n {
		v, err := base.Get(i)
		if err != nil {
			return nil, err
		}
		t, err := coltype.As[T](v)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			dict = append(dict, t)
		}
	}
	slices.Sort(dict)

	attrs, err := NewAttributeVector(n, len(dict))
	if err != nil {
		return nil, err
	}

	for i := range n {
		v, err := base.Get(i)
		if err != nil {
			return nil, err
		}
		t, err := coltype.As[T](v)
		if err != nil {
			return nil, err
		}
		idx := sort.Search(len(dict), func(j int) bool { return dict[j] >= t })
		// idx < len(dict) and dict[idx] == t is guaranteed: t was collected
		// from this same base segment above.
		if err := attrs.Set(i, ValueID(idx)); err != nil {
			return nil, err
		}
	}

	return &DictionarySegment[T]{dictionary: dict, attrs: attrs}, nil
}

func (d *DictionarySegment[T]) Size() int { return d.attrs.Size() }

func (d *DictionarySegment[T]) Get(offset int) (coltype.Variant, error) {
	id, err := d.attrs.Get(offset)
	if err != nil {
		return coltype.Variant{}, err
	}
	t, err := d.ValueByValueID(id)
	if err != nil {
		return coltype.Variant{}, err
	}
	return coltype.Of(t), nil
}

// Append is a no-op: dictionary segments are immutable.
func (d *DictionarySegment[T]) Append(coltype.Variant) error { return nil }

// Dictionary returns the sorted, unique dictionary values.
func (d *DictionarySegment[T]) Dictionary() []T { return d.dictionary }

// AttributeVector returns the underlying attribute vector.
func (d *DictionarySegment[T]) AttributeVector() AttributeVector { return d.attrs }

// ValueByValueID returns dictionary[id], bounds-checked.
func (d *DictionarySegment[T]) ValueByValueID(id ValueID) (T, error) {
	if int(id) < 0 || int(id) >= len(d.dictionary) {
		var zero T
		return zero, ErrOutOfBounds
	}
	return d.dictionary[id], nil
}

// LowerBound returns the smallest ValueID whose value is >= v, or
// InvalidValueID if none.
func (d *DictionarySegment[T]) LowerBound(v T) ValueID {
	idx := sort.Search(len(d.dictionary), func(i int) bool { return d.dictionary[i] >= v })
	if idx == len(d.dictionary) {
		return InvalidValueID
	}
	return ValueID(idx)
}

// UpperBound returns the smallest ValueID whose value is > v, or
// InvalidValueID if none.
func (d *DictionarySegment[T]) UpperBound(v T) ValueID {
	idx := sort.Search(len(d.dictionary), func(i int) bool { return d.dictionary[i] > v })
	if idx == len(d.dictionary) {
		return InvalidValueID
	}
	return ValueID(idx)
}

// LowerBoundVariant converts value and delegates to LowerBound.
func (d *DictionarySegment[T]) LowerBoundVariant(value coltype.Variant) (ValueID, error) {
	v, err := coltype.As[T](value)
	if err != nil {
		return 0, err
	}
	return d.LowerBound(v), nil
}

// UpperBoundVariant converts value and delegates to UpperBound.
func (d *DictionarySegment[T]) UpperBoundVariant(value coltype.Variant) (ValueID, error) {
	v, err := coltype.As[T](value)
	if err != nil {
		return 0, err
	}
	return d.UpperBound(v), nil
}

// UniqueValuesCount returns the number of dictionary entries.
func (d *DictionarySegment[T]) UniqueValuesCount() int { return len(d.dictionary) }

// EstimateMemoryUsage = len(dictionary)*sizeof(T) + size()*width.
func (d *DictionarySegment[T]) EstimateMemoryUsage() int {
	var zero T
	return len(d.dictionary)*sizeOf(zero) + d.Size()*d.attrs.Width()
}

var _ Segment = (*DictionarySegment[int32])(nil)
