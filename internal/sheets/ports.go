// Package sheets defines the port for mirroring expenses to an external
// spreadsheet. The database stays the source of truth; the mirror is
// append-only and best effort.
package sheets

import (
	"context"

	"github.com/yashsdhond/expense-tracker-mcp-server/internal/core"
)

// ExpenseAppender appends a single expense row to the mirror and returns a
// backend-specific reference to the written row.
type ExpenseAppender interface {
	Append(ctx context.Context, e core.Expense) (string, error)
}
