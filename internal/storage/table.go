package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"columnstore/internal/callgroup"
	"columnstore/internal/coltype"
	"columnstore/internal/logging"
	"columnstore/internal/segment"
)

// Table holds a target chunk size, an ordered sequence of chunks (at least
// one; the last is the active chunk), and a schema: parallel column-name /
// column-type sequences plus a name-to-id index.
//
// Grounded on internal/chunk/memory.Manager's active-chunk-plus-history
// shape: a single mutex serialises schema changes, appends, and chunk
// rotation/compression swaps, exactly as the teacher serialises append,
// seal, and open around one active chunkState.
type Table struct {
	mu sync.RWMutex

	targetChunkSize int
	chunks          []*Chunk

	columnNames []string
	columnTypes []coltype.Name
	nameToID    map[string]int

	compressGroup callgroup.Group[int]
	logger        *slog.Logger
}

// Config configures a new Table. TargetChunkSize must be positive.
type Config struct {
	TargetChunkSize int
	Logger          *slog.Logger
}

// New returns an empty table (no columns, one empty chunk) with the given
// target chunk size.
func New(cfg Config) *Table {
	logger := logging.Default(cfg.Logger).With("component", "table")
	return &Table{
		targetChunkSize: cfg.TargetChunkSize,
		chunks:          []*Chunk{NewChunk()},
		nameToID:        make(map[string]int),
		logger:          logger,
	}
}

// AddColumn extends the schema with a new column of the given type,
// appending a fresh empty value segment of that type to the active chunk.
// Legal only while RowCount() == 0; fails with ErrDuplicateColumn if name
// is already present.
func (t *Table) AddColumn(name, typeName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rowCountLocked() != 0 {
		return fmt.Errorf("%w: add_column after rows exist", ErrSchemaViolation)
	}
	if _, ok := t.nameToID[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if err := validateElementType(typeName); err != nil {
		return err
	}

	seg, err := newValueSegmentForType(typeName)
	if err != nil {
		return err
	}

	colID := len(t.columnNames)
	t.columnNames = append(t.columnNames, name)
	t.columnTypes = append(t.columnTypes, coltype.Name(typeName))
	t.nameToID[name] = colID
	t.activeChunkLocked().AddSegment(seg)
	return nil
}

// newValueSegmentForType returns a fresh, empty ValueSegment[T] for the
// static T bound to typeName.
func newValueSegmentForType(typeName string) (segment.Segment, error) {
	var out segment.Segment
	err := coltype.Dispatch(typeName, coltype.Funcs{
		Int:    func(int32) error { out = segment.NewValueSegment[int32](); return nil },
		Long:   func(int64) error { out = segment.NewValueSegment[int64](); return nil },
		Float:  func(float32) error { out = segment.NewValueSegment[float32](); return nil },
		Double: func(float64) error { out = segment.NewValueSegment[float64](); return nil },
		String: func(string) error { out = segment.NewValueSegment[string](); return nil },
	})
	return out, err
}

// Append validates that len(values) == ColumnCount, rotates to a fresh
// chunk if the active chunk has reached TargetChunkSize, and appends values
// to the (possibly new) active chunk.
func (t *Table) Append(values []coltype.Variant) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(values) != len(t.columnNames) {
		return fmt.Errorf("%w: got %d values, want %d", ErrSchemaViolation, len(values), len(t.columnNames))
	}

	active := t.activeChunkLocked()
	if active.Size() >= t.targetChunkSize {
		fresh := NewChunk()
		for _, typeName := range t.columnTypes {
			seg, err := newValueSegmentForType(string(typeName))
			if err != nil {
				return err
			}
			fresh.AddSegment(seg)
		}
		t.chunks = append(t.chunks, fresh)
		active = fresh
	}
	return active.Append(values)
}

func (t *Table) activeChunkLocked() *Chunk {
	return t.chunks[len(t.chunks)-1]
}

func (t *Table) rowCountLocked() int {
	total := 0
	for _, c := range t.chunks {
		total += c.Size()
	}
	return total
}

// RowCount returns the sum of every chunk's Size.
func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rowCountLocked()
}

// ChunkCount returns the number of chunks in the table.
func (t *Table) ChunkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.chunks)
}

// ColumnCount returns the number of columns in the schema.
func (t *Table) ColumnCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.columnNames)
}

// ColumnNames returns a copy of the schema's column names, in order.
func (t *Table) ColumnNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.columnNames))
	copy(out, t.columnNames)
	return out
}

// ColumnName returns the name of column i.
func (t *Table) ColumnName(i int) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.columnNames) {
		return "", ErrNotFound
	}
	return t.columnNames[i], nil
}

// ColumnType returns the type name of column i.
func (t *Table) ColumnType(i int) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.columnTypes) {
		return "", ErrNotFound
	}
	return string(t.columnTypes[i]), nil
}

// ColumnIDByName resolves a column name to its index.
func (t *Table) ColumnIDByName(name string) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.nameToID[name]
	if !ok {
		return 0, fmt.Errorf("%w: column %q", ErrNotFound, name)
	}
	return id, nil
}

// TargetChunkSize returns the maximum rows per chunk.
func (t *Table) TargetChunkSize() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.targetChunkSize
}

// GetChunk returns the concrete chunk at chunkID, for callers within this
// module that need typed access (Chunk below, operator code reading input
// chunks, and the compression scheduler).
func (t *Table) GetChunk(chunkID int) (*Chunk, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if chunkID < 0 || chunkID >= len(t.chunks) {
		return nil, ErrNotFound
	}
	return t.chunks[chunkID], nil
}

// Chunk returns the chunk at chunkID as a segment.ChunkAccessor. This is
// the exact signature segment.TableAccessor requires, so *Table satisfies
// it structurally and can back ReferenceSegments pointed at this table.
func (t *Table) Chunk(chunkID int) (segment.ChunkAccessor, error) {
	return t.GetChunk(chunkID)
}

// EmplaceChunk replaces the table's single empty chunk if one exists,
// otherwise appends c to the chunk sequence. Used by operators seeding a
// result table with schema only, then emplacing per-input-chunk results.
func (t *Table) EmplaceChunk(c *Chunk) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.chunks) == 1 && t.chunks[0].Size() == 0 && t.chunks[0].ColumnCount() == len(t.columnNames) {
		t.chunks[0] = c
		return nil
	}
	t.chunks = append(t.chunks, c)
	return nil
}

// CompressChunk concurrently replaces every value segment of chunk chunkID
// with a dictionary segment: one worker per column resolves the column's
// element type, builds a DictionarySegment[T] from the existing segment,
// and writes it into a fresh chunk; workers are awaited before the table
// atomically swaps the chunk pointer. Readers that obtained a handle to
// the old chunk before the swap continue to see it unchanged; readers
// afterwards see the new, dictionary-encoded chunk.
//
// Concurrent CompressChunk calls against the same chunkID are deduplicated:
// the second caller waits for the first's in-flight compression and shares
// its result instead of racing it.
func (t *Table) CompressChunk(ctx context.Context, chunkID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch := t.compressGroup.DoChan(chunkID, func() error {
		return t.doCompressChunk(context.WithoutCancel(ctx), chunkID)
	})

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Table) doCompressChunk(ctx context.Context, chunkID int) error {
	t.mu.RLock()
	if chunkID < 0 || chunkID >= len(t.chunks) {
		t.mu.RUnlock()
		return ErrNotFound
	}
	old := t.chunks[chunkID]
	columnTypes := make([]coltype.Name, len(t.columnTypes))
	copy(columnTypes, t.columnTypes)
	t.mu.RUnlock()

	runID := uuid.New()
	t.logger.Info("compress_chunk starting", "run_id", runID, "chunk_id", chunkID, "columns", len(columnTypes))

	fresh := NewChunk()
	slots := make([]segment.Segment, len(columnTypes))

	g, gctx := errgroup.WithContext(ctx)
	for col, typeName := range columnTypes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			base, err := old.Segment(col)
			if err != nil {
				return err
			}
			seg, err := newDictionarySegmentForType(typeName, base)
			if err != nil {
				return err
			}
			slots[col] = seg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.logger.Info("compress_chunk failed", "run_id", runID, "chunk_id", chunkID, "error", err)
		return err
	}
	for _, seg := range slots {
		fresh.AddSegment(seg)
	}

	t.mu.Lock()
	t.chunks[chunkID] = fresh
	t.mu.Unlock()

	t.logger.Info("compress_chunk done", "run_id", runID, "chunk_id", chunkID)
	return nil
}

// newDictionarySegmentForType builds a DictionarySegment[T] from base for
// the static T bound to typeName.
func newDictionarySegmentForType(typeName coltype.Name, base segment.Segment) (segment.Segment, error) {
	var out segment.Segment
	var buildErr error
	err := coltype.Dispatch(string(typeName), coltype.Funcs{
		Int: func(int32) error {
			out, buildErr = segment.NewDictionarySegment[int32](base)
			return buildErr
		},
		Long: func(int64) error {
			out, buildErr = segment.NewDictionarySegment[int64](base)
			return buildErr
		},
		Float: func(float32) error {
			out, buildErr = segment.NewDictionarySegment[float32](base)
			return buildErr
		},
		Double: func(float64) error {
			out, buildErr = segment.NewDictionarySegment[float64](base)
			return buildErr
		},
		String: func(string) error {
			out, buildErr = segment.NewDictionarySegment[string](base)
			return buildErr
		},
	})
	if err != nil {
		return nil, err
	}
	return out, buildErr
}

var _ segment.TableAccessor = (*Table)(nil)
