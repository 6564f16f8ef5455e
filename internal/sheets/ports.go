// Package sheets defines the outbound ports for the hosted ledger mirror.
package sheets

import (
	"context"

	"paisa/internal/core"
)

// ExpenseWriter appends one expense row to the mirror and returns a
// reference to the written row.
type ExpenseWriter interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
