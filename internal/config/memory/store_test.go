package memory

import (
	"context"
	"testing"

	"columnstore/internal/config"
)

func TestStoreLoadEmpty(t *testing.T) {
	s := NewStore()
	cfg, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != nil {
		t.Fatalf("Load() = %+v, want nil", cfg)
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := NewStore()
	want := &config.EngineConfig{
		DefaultTargetChunkSize:      1000,
		AutoCompress:                true,
		AutoCompressIntervalSeconds: 60,
	}
	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestStoreSaveIsolatesCaller(t *testing.T) {
	s := NewStore()
	cfg := &config.EngineConfig{DefaultTargetChunkSize: 10}
	if err := s.Save(context.Background(), cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cfg.DefaultTargetChunkSize = 999

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DefaultTargetChunkSize != 10 {
		t.Fatalf("Load().DefaultTargetChunkSize = %d, want 10 (Save must copy)", got.DefaultTargetChunkSize)
	}
}
