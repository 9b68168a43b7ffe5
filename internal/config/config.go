// Package config provides configuration persistence for the engine.
//
// Store persists and reloads the desired engine configuration. This is
// control-plane state (chunk sizing defaults, background compression
// policy), never data-plane state (table contents live in internal/storage
// only and are never round-tripped through a Store).
package config

import "context"

// Store persists and loads engine configuration.
type Store interface {
	// Load reads the configuration. Returns nil config if none exists.
	Load(ctx context.Context) (*EngineConfig, error)

	// Save persists the configuration.
	Save(ctx context.Context, cfg *EngineConfig) error
}

// EngineConfig describes the desired engine defaults. It is declarative:
// it defines what should exist, not how to create it.
type EngineConfig struct {
	// DefaultTargetChunkSize is a default target_chunk_size for new tables.
	// No code in this module reads it: storage.New takes its chunk size
	// only from storage.Config.TargetChunkSize.
	DefaultTargetChunkSize int

	// AutoCompress records whether the background compression scheduler
	// (internal/scheduler) is wanted. No code in this module reads it; a
	// scheduler runs only once a caller calls Scheduler.Start.
	AutoCompress bool

	// AutoCompressIntervalSeconds is a period, in seconds, for background
	// compression sweeps. Scheduler.Start takes its period as a
	// gocron.JobDefinition and does not read this field.
	AutoCompressIntervalSeconds int
}
