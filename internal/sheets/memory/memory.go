// Package memory provides an in-memory ExpenseWriter used by tests and
// local runs without a spreadsheet configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"paisa/internal/core"
	ports "paisa/internal/sheets"
)

type Writer struct {
	mu   sync.Mutex
	rows []core.Expense

	// FailWith makes every Append return this error; tests use it to
	// exercise the worker's retry path.
	FailWith error
}

var _ ports.ExpenseWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Append(ctx context.Context, e core.Expense) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.FailWith != nil {
		return "", w.FailWith
	}

	w.rows = append(w.rows, e)
	return fmt.Sprintf("memory!A%d", len(w.rows)), nil
}

// Rows returns a snapshot of everything appended so far.
func (w *Writer) Rows() []core.Expense {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]core.Expense, len(w.rows))
	copy(out, w.rows)
	return out
}
