package operator

import "columnstore/internal/storage"

// TableWrapper is the leaf operator: it exposes an already-built table as
// an operator's output, with no upstream of its own.
type TableWrapper struct {
	base
	table *storage.Table
}

// NewTableWrapper wraps t for use as a pipeline's input.
func NewTableWrapper(t *storage.Table) *TableWrapper {
	return &TableWrapper{table: t}
}

// Execute makes the wrapped table available via GetOutput. Always
// succeeds; fails only with ErrAlreadyExecuted on a second call.
func (w *TableWrapper) Execute() error {
	return w.base.execute(func() (*storage.Table, error) { return w.table, nil })
}

var _ Operator = (*TableWrapper)(nil)
