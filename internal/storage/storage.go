// Package storage implements the chunk and table abstractions: a chunk is
// a fixed-arity group of equal-length segments, a table is an ordered
// sequence of chunks plus a schema and a chunk-compression driver.
//
// Grounded on internal/chunk/memory's mutex-guarded "active chunk + history
// of sealed chunks" shape (same lock discipline, same rotate-on-threshold
// append flow) and internal/index's errgroup/callgroup fan-out for
// concurrent per-column work, retargeted from log records to typed columns.
package storage

import (
	"errors"
	"fmt"

	"columnstore/internal/coltype"
)

// ErrSchemaViolation is returned when add_column is attempted after rows
// already exist, or append is called with an argument count that doesn't
// match the schema's column count.
var ErrSchemaViolation = errors.New("storage: schema violation")

// ErrDuplicateColumn is returned when add_column is given a name already
// present in the table's schema.
var ErrDuplicateColumn = errors.New("storage: duplicate column name")

// ErrNotFound is returned when a chunk index or column lookup misses.
var ErrNotFound = errors.New("storage: not found")

// ErrColumnCountMismatch is returned when a chunk's segment count does not
// match the column count a caller expects.
var ErrColumnCountMismatch = fmt.Errorf("storage: column count mismatch")

// validateElementType reports whether typeName is a recognised column type,
// wrapping coltype.ErrUnknownType with storage-package context on failure.
func validateElementType(typeName string) error {
	if !coltype.Valid(typeName) {
		return fmt.Errorf("storage: %w: %q", coltype.ErrUnknownType, typeName)
	}
	return nil
}
