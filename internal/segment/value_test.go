package segment

import (
	"errors"
	"testing"

	"columnstore/internal/coltype"
)

func TestValueSegmentAppendGet(t *testing.T) {
	s := NewValueSegment[int32]()
	for _, v := range []int32{1, 2, 3} {
		if err := s.Append(coltype.NewInt(v)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if s.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", s.Size())
	}
	got, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	v, err := coltype.As[int32](got)
	if err != nil || v != 2 {
		t.Fatalf("Get(1) = %v, %v, want 2, nil", v, err)
	}
}

func TestValueSegmentOutOfBounds(t *testing.T) {
	s := NewValueSegment[int32]()
	_ = s.Append(coltype.NewInt(1))
	if _, err := s.Get(5); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestValueSegmentAppendTypeMismatch(t *testing.T) {
	s := NewValueSegment[int32]()
	if err := s.Append(coltype.NewString("nope")); !errors.Is(err, coltype.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestValueSegmentValuesFastPath(t *testing.T) {
	s := NewValueSegment[string]()
	_ = s.Append(coltype.NewString("a"))
	_ = s.Append(coltype.NewString("b"))
	values := s.Values()
	if len(values) != 2 || values[0] != "a" || values[1] != "b" {
		t.Fatalf("Values() = %v", values)
	}
}
