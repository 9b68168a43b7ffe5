// Package operator implements the lazy, single-shot operator pipeline: a
// leaf TableWrapper exposing a prebuilt table, and a TableScan that
// evaluates one comparison over one column and always produces
// reference-segment output.
//
// Grounded on the teacher's (now-retired) query.Engine.RunPipeline shape:
// classify once, execute once, propagate the first error. The single-shot
// execute/get_output contract itself is grounded on
// original_source/src/lib/operators/abstract_operator.cpp.
package operator

import (
	"errors"
	"sync"

	"columnstore/internal/storage"
)

// ErrAlreadyExecuted is returned by Execute on an operator that has already
// run.
var ErrAlreadyExecuted = errors.New("operator: already executed")

// ErrNotExecuted is returned by GetOutput on an operator that has not run
// yet.
var ErrNotExecuted = errors.New("operator: not executed")

// Operator is the contract every pipeline stage implements: Execute runs
// exactly once, GetOutput returns the materialised result afterwards.
type Operator interface {
	Execute() error
	GetOutput() (*storage.Table, error)
}

// base provides the single-shot execute/get_output lifecycle shared by
// every concrete operator. Embedders call base.execute with a closure that
// performs their own on-execute work (the "_on_execute template method" in
// the source this spec distills).
type base struct {
	mu       sync.Mutex
	executed bool
	output   *storage.Table
}

func (b *base) execute(onExecute func() (*storage.Table, error)) error {
	b.mu.Lock()
	if b.executed {
		b.mu.Unlock()
		return ErrAlreadyExecuted
	}
	b.mu.Unlock()

	out, err := onExecute()
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.executed = true
	b.output = out
	b.mu.Unlock()
	return nil
}

// GetOutput returns the result table. Only valid after Execute has
// returned successfully.
func (b *base) GetOutput() (*storage.Table, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.executed {
		return nil, ErrNotExecuted
	}
	return b.output, nil
}

// inputTable fetches op's output, for use inside an on-execute closure only
// — the caller is required to have already executed op before wiring it in
// as an upstream.
func inputTable(op Operator) (*storage.Table, error) {
	return op.GetOutput()
}
