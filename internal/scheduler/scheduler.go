// Package scheduler runs a background sweep that compresses tables' sealed
// chunks (every chunk but the active one) on a timer, for callers that
// don't want to call compress_chunk manually after every rotation.
//
// Grounded on the teacher's use of github.com/go-co-op/gocron/v2
// (orchestrator.Scheduler's NewScheduler/NewJob/Start/Shutdown shape) for
// periodic maintenance jobs, scaled down from its multi-job, progress
// tracking API to the one recurring task this engine needs.
package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"columnstore/internal/logging"
	"columnstore/internal/registry"
	"columnstore/internal/segment"
	"columnstore/internal/storage"
)

// ErrNotStarted is returned by Stop on a scheduler that was never started.
var ErrNotStarted = errors.New("scheduler: not started")

// Scheduler periodically compresses sealed chunks of every table in a
// registry.
type Scheduler struct {
	reg    *registry.Registry
	logger *slog.Logger
	gs     gocron.Scheduler
}

// New returns a scheduler that will sweep every table in reg. logger may
// be nil.
func New(reg *registry.Registry, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		reg:    reg,
		logger: logging.Default(logger).With("component", "scheduler"),
	}
}

// Start launches the background sweep, running once every interval. Fails
// if a gocron scheduler cannot be constructed.
func (s *Scheduler) Start(interval gocron.JobDefinition) error {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	if _, err := gs.NewJob(interval, gocron.NewTask(s.sweep), gocron.WithName("compress-sweep")); err != nil {
		return err
	}
	s.gs = gs
	s.gs.Start()
	return nil
}

// Stop shuts down the background sweep, waiting for an in-flight run to
// finish. No-op (returns ErrNotStarted) if Start was never called.
func (s *Scheduler) Stop() error {
	if s.gs == nil {
		return ErrNotStarted
	}
	return s.gs.Shutdown()
}

// sweep compresses every sealed (non-active) chunk of every registered
// table whose first segment is still a value segment. Failures are logged,
// not propagated: one table's compression error must not stop the sweep
// over the rest of the registry.
func (s *Scheduler) sweep() {
	for _, name := range s.reg.Names() {
		tb, err := s.reg.Get(name)
		if err != nil {
			continue
		}
		s.sweepTable(name, tb)
	}
}

func (s *Scheduler) sweepTable(name string, tb *storage.Table) {
	n := tb.ChunkCount()
	for chunkID := 0; chunkID < n-1; chunkID++ {
		chunk, err := tb.GetChunk(chunkID)
		if err != nil {
			s.logger.Warn("compress sweep: chunk lookup failed", "table", name, "chunk_id", chunkID, "error", err)
			continue
		}
		if chunk.ColumnCount() == 0 {
			continue
		}
		seg0, err := chunk.Segment(0)
		if err != nil {
			continue
		}
		if isAlreadyCompressed(seg0) {
			continue
		}
		if err := tb.CompressChunk(context.Background(), chunkID); err != nil {
			s.logger.Warn("compress sweep: compress_chunk failed", "table", name, "chunk_id", chunkID, "error", err)
		}
	}
}

// isAlreadyCompressed reports whether seg is one of the dictionary segment
// instantiations, so the sweep can skip chunks that have no value segments
// left to compress.
func isAlreadyCompressed(seg segment.Segment) bool {
	switch seg.(type) {
	case *segment.DictionarySegment[int32], *segment.DictionarySegment[int64],
		*segment.DictionarySegment[float32], *segment.DictionarySegment[float64],
		*segment.DictionarySegment[string]:
		return true
	default:
		return false
	}
}
