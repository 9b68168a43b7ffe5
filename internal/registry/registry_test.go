package registry

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"columnstore/internal/storage"
)

func TestRegistryAddGetDrop(t *testing.T) {
	r := New()
	tb := storage.New(storage.Config{TargetChunkSize: 10})
	if err := r.Add("t1", tb); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !r.Has("t1") {
		t.Fatalf("Has(t1) = false, want true")
	}
	got, err := r.Get("t1")
	if err != nil || got != tb {
		t.Fatalf("Get(t1) = %v, %v, want original table", got, err)
	}
	if err := r.Drop("t1"); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if r.Has("t1") {
		t.Fatalf("Has(t1) = true after Drop, want false")
	}
}

func TestRegistryAddNameConflict(t *testing.T) {
	r := New()
	tb := storage.New(storage.Config{TargetChunkSize: 10})
	_ = r.Add("t1", tb)
	if err := r.Add("t1", tb); !errors.Is(err, ErrNameConflict) {
		t.Fatalf("expected ErrNameConflict, got %v", err)
	}
}

func TestRegistryDropMissing(t *testing.T) {
	r := New()
	if err := r.Drop("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistryGetMissing(t *testing.T) {
	r := New()
	if _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_ = r.Add(name, storage.New(storage.Config{TargetChunkSize: 10}))
	}
	got := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

func TestRegistryPrint(t *testing.T) {
	r := New()
	tb := storage.New(storage.Config{TargetChunkSize: 10})
	_ = tb.AddColumn("a", "int")
	_ = r.Add("t1", tb)

	var buf bytes.Buffer
	if err := r.Print(&buf); err != nil {
		t.Fatalf("Print: %v", err)
	}
	line := buf.String()
	if !strings.Contains(line, "Table: t1, Column Count: 1, Row Count: 0, Chunk Count: 1") {
		t.Fatalf("Print() = %q, missing expected summary line", line)
	}
}

func TestRegistryReset(t *testing.T) {
	r := New()
	_ = r.Add("t1", storage.New(storage.Config{TargetChunkSize: 10}))
	_ = r.Add("t2", storage.New(storage.Config{TargetChunkSize: 10}))
	r.Reset()
	if len(r.Names()) != 0 {
		t.Fatalf("Names() after Reset = %v, want empty", r.Names())
	}
}

func TestGlobalRegistryIsSingleton(t *testing.T) {
	if Global() != Global() {
		t.Fatalf("Global() returned different instances across calls")
	}
}
