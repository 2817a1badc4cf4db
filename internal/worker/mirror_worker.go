// Package worker mirrors recorded expenses to an external spreadsheet.
// It consumes created events, re-reads the row from SQLite and appends
// it to the mirror, so the spreadsheet never sees data that is not
// durable in the database.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yashsdhond/expense-tracker-mcp-server/internal/amqp"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/sheets"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/storage"
)

// MirrorWorker handles mirroring of expenses from SQLite to a spreadsheet.
type MirrorWorker struct {
	store  *storage.Store
	sheets sheets.ExpenseAppender
}

// NewMirrorWorker wires the store with an optional appender. A nil
// appender makes the worker drain events without mirroring.
func NewMirrorWorker(store *storage.Store, appender sheets.ExpenseAppender) *MirrorWorker {
	return &MirrorWorker{
		store:  store,
		sheets: appender,
	}
}

// HandleCreatedMessage processes a single expense created event. The
// expense is fetched by ID so the mirror always reflects the stored row,
// not whatever was in flight when the event was published.
func (w *MirrorWorker) HandleCreatedMessage(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	slog.InfoContext(ctx, "Processing created event", "id", msg.ID)

	expense, err := w.store.GetExpense(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	if w.sheets == nil {
		slog.WarnContext(ctx, "No spreadsheet backend configured, skipping mirror",
			"id", msg.ID)
		return nil
	}

	ref, err := w.sheets.Append(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored expense",
		"id", msg.ID,
		"sheets_ref", ref,
		"date", expense.Date,
		"amount", expense.Amount)

	return nil
}
