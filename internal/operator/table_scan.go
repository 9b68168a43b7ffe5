package operator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"columnstore/internal/coltype"
	"columnstore/internal/logging"
	"columnstore/internal/segment"
	"columnstore/internal/storage"
)

// ScanType is one of the six comparison operators TableScan supports.
type ScanType int

const (
	Equals ScanType = iota
	NotEquals
	LessThan
	LessThanEquals
	GreaterThan
	GreaterThanEquals
)

// ErrInvalidArgument is returned when the scan's search value cannot be
// converted to the scanned column's element type.
var ErrInvalidArgument = errors.New("operator: invalid argument")

// ErrUnsupportedSegment is returned when a chunk's segment at the scanned
// column is none of the three known variants.
var ErrUnsupportedSegment = errors.New("operator: unsupported segment")

// TableScan evaluates one comparison against one column of its upstream
// operator's output, chunk by chunk, and always emits reference segments:
// a naive linear scan over value segments, a binary-search-accelerated
// scan over dictionary segments (via the lower/upper-bound rewrite table),
// and an indirection-following scan over reference segments that flattens
// to the referenced table directly.
type TableScan struct {
	base
	input       Operator
	columnID    int
	scanType    ScanType
	searchValue coltype.Variant
	logger      *slog.Logger
}

// NewTableScan builds a TableScan over input's output column columnID,
// comparing it to searchValue with scanType. logger may be nil.
func NewTableScan(input Operator, columnID int, scanType ScanType, searchValue coltype.Variant, logger *slog.Logger) *TableScan {
	return &TableScan{
		input:       input,
		columnID:    columnID,
		scanType:    scanType,
		searchValue: searchValue,
		logger:      logging.Default(logger).With("component", "table-scan"),
	}
}

// Execute runs the scan. input must already have been executed by the
// caller; TableScan never executes its upstream itself.
func (s *TableScan) Execute() error {
	return s.base.execute(s.onExecute)
}

func (s *TableScan) onExecute() (*storage.Table, error) {
	runID := uuid.New()

	in, err := inputTable(s.input)
	if err != nil {
		return nil, err
	}

	typeName, err := in.ColumnType(s.columnID)
	if err != nil {
		return nil, err
	}

	out := storage.New(storage.Config{TargetChunkSize: in.TargetChunkSize(), Logger: s.logger})
	for i := 0; i < in.ColumnCount(); i++ {
		name, err := in.ColumnName(i)
		if err != nil {
			return nil, err
		}
		ct, err := in.ColumnType(i)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(name, ct); err != nil {
			return nil, err
		}
	}

	s.logger.Info("table_scan starting", "run_id", runID, "column_id", s.columnID, "chunks", in.ChunkCount())

	var scanErr error
	dispatchErr := coltype.Dispatch(typeName, coltype.Funcs{
		Int:    func(int32) error { scanErr = scanAllChunks[int32](s, in, out); return scanErr },
		Long:   func(int64) error { scanErr = scanAllChunks[int64](s, in, out); return scanErr },
		Float:  func(float32) error { scanErr = scanAllChunks[float32](s, in, out); return scanErr },
		Double: func(float64) error { scanErr = scanAllChunks[float64](s, in, out); return scanErr },
		String: func(string) error { scanErr = scanAllChunks[string](s, in, out); return scanErr },
	})
	if dispatchErr != nil {
		return nil, dispatchErr
	}
	if scanErr != nil {
		s.logger.Info("table_scan failed", "run_id", runID, "error", scanErr)
		return nil, scanErr
	}

	s.logger.Info("table_scan done", "run_id", runID, "output_chunks", out.ChunkCount())
	return out, nil
}

// scanAllChunks evaluates s's predicate, bound to element type T, against
// every chunk of in, emplacing one reference chunk per input chunk that
// produced at least one match.
func scanAllChunks[T coltype.Elem](s *TableScan, in *storage.Table, out *storage.Table) error {
	search, err := coltype.As[T](s.searchValue)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	for chunkID := 0; chunkID < in.ChunkCount(); chunkID++ {
		chunk, err := in.GetChunk(chunkID)
		if err != nil {
			return err
		}
		seg, err := chunk.Segment(s.columnID)
		if err != nil {
			return err
		}

		posList, referencedTable, err := scanOneSegment[T](seg, chunkID, search, s.scanType, in)
		if err != nil {
			return err
		}
		if len(posList) == 0 {
			continue
		}

		posListPtr := &posList
		outChunk := storage.NewChunk()
		for col := 0; col < out.ColumnCount(); col++ {
			outChunk.AddSegment(segment.NewReferenceSegment(referencedTable, col, posListPtr))
		}
		if err := out.EmplaceChunk(outChunk); err != nil {
			return err
		}
	}
	return nil
}

// scanOneSegment dispatches to the strategy matching seg's concrete
// variant, returning the matching position list and the table those
// positions are relative to (in for value/dictionary segments, the
// reference segment's own referenced table for the reference-segment
// path, which flattens chains one hop deep).
func scanOneSegment[T coltype.Elem](seg segment.Segment, chunkID int, search T, st ScanType, in segment.TableAccessor) (segment.PosList, segment.TableAccessor, error) {
	switch typed := seg.(type) {
	case *segment.ValueSegment[T]:
		return scanValueSegment(typed, chunkID, search, st), in, nil
	case *segment.DictionarySegment[T]:
		pl, err := scanDictionarySegment(typed, chunkID, search, st)
		return pl, in, err
	case *segment.ReferenceSegment:
		pl, err := scanReferenceSegment[T](typed, search, st)
		return pl, typed.ReferencedTable(), err
	default:
		return nil, nil, ErrUnsupportedSegment
	}
}

func scanValueSegment[T coltype.Elem](seg *segment.ValueSegment[T], chunkID int, search T, st ScanType) segment.PosList {
	var pl segment.PosList
	for i, v := range seg.Values() {
		if compareMatches(v, search, st) {
			pl = append(pl, segment.RowID{ChunkID: chunkID, ChunkOffset: i})
		}
	}
	return pl
}

// scanDictionarySegment implements the scan-type-to-value-id rewrite
// table: absent search values are handled by rewriting the predicate into
// one that does not require the missing id, rather than special-casing
// "not found" in the comparison itself.
func scanDictionarySegment[T coltype.Elem](seg *segment.DictionarySegment[T], chunkID int, search T, st ScanType) (segment.PosList, error) {
	lb := seg.LowerBound(search)
	ub := seg.UpperBound(search)
	present := lb != ub

	var searchID segment.ValueID
	var effective ScanType
	switch st {
	case Equals:
		effective = Equals
		if present {
			searchID = lb
		} else {
			searchID = segment.InvalidValueID
		}
	case NotEquals:
		effective = NotEquals
		if present {
			searchID = lb
		} else {
			searchID = segment.InvalidValueID
		}
	case GreaterThanEquals:
		effective = GreaterThanEquals
		searchID = lb
	case GreaterThan:
		effective = GreaterThanEquals
		searchID = ub
	case LessThanEquals:
		searchID = lb
		if present {
			effective = LessThanEquals
		} else {
			effective = LessThan
		}
	case LessThan:
		effective = LessThan
		searchID = lb
	default:
		return nil, fmt.Errorf("%w: unknown scan type %d", ErrInvalidArgument, st)
	}

	attrs := seg.AttributeVector()
	var pl segment.PosList
	for i := 0; i < attrs.Size(); i++ {
		id, err := attrs.Get(i)
		if err != nil {
			return nil, err
		}
		if compareValueID(id, searchID, effective) {
			pl = append(pl, segment.RowID{ChunkID: chunkID, ChunkOffset: i})
		}
	}
	return pl, nil
}

func scanReferenceSegment[T coltype.Elem](seg *segment.ReferenceSegment, search T, st ScanType) (segment.PosList, error) {
	srcPosList := seg.PosList()
	var pl segment.PosList
	for i := 0; i < seg.Size(); i++ {
		v, err := seg.Get(i)
		if err != nil {
			return nil, err
		}
		t, err := coltype.As[T](v)
		if err != nil {
			return nil, err
		}
		if compareMatches(t, search, st) {
			pl = append(pl, (*srcPosList)[i])
		}
	}
	return pl, nil
}

func compareMatches[T coltype.Elem](v, search T, st ScanType) bool {
	switch st {
	case Equals:
		return v == search
	case NotEquals:
		return v != search
	case LessThan:
		return v < search
	case LessThanEquals:
		return v <= search
	case GreaterThan:
		return v > search
	case GreaterThanEquals:
		return v >= search
	default:
		return false
	}
}

func compareValueID(id, search segment.ValueID, st ScanType) bool {
	switch st {
	case Equals:
		return id == search
	case NotEquals:
		return id != search
	case LessThan:
		return id < search
	case LessThanEquals:
		return id <= search
	case GreaterThan:
		return id > search
	case GreaterThanEquals:
		return id >= search
	default:
		return false
	}
}

var _ Operator = (*TableScan)(nil)
