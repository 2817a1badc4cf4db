package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yashsdhond/expense-tracker-mcp-server/internal/amqp"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/core"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/storage"
)

// ExpenseService orchestrates expense operations across SQLite and AMQP
type ExpenseService struct {
	store      *storage.Store
	amqpClient *amqp.Client
}

// NewExpenseService wires the store with an optional AMQP client. A nil
// client disables event publishing without affecting writes.
func NewExpenseService(store *storage.Store, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// CreateExpense validates required fields, fills optional ones with empty
// strings, saves the row and publishes a created event. Publish failures
// are logged but never fail the request since the row is already durable.
// Amount is a pointer so an absent field is distinguishable from an
// explicit zero; zero amounts are valid and persisted as given.
func (s *ExpenseService) CreateExpense(ctx context.Context, date string, amount *float64, category string, subcategory, note *string) (int64, error) {
	if date == "" {
		return 0, core.ErrMissingDate
	}
	if amount == nil {
		return 0, core.ErrMissingAmount
	}
	if category == "" {
		return 0, core.ErrMissingCategory
	}

	e := core.Expense{
		Date:        date,
		Amount:      *amount,
		Category:    category,
		Subcategory: core.ResolveOptional(subcategory),
		Note:        core.ResolveOptional(note),
	}

	id, err := s.store.Create(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	if err := s.publishCreatedEvent(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish created event",
			"id", id, "error", err)
		// Don't fail the request - expense is saved locally
	}

	return id, nil
}

// ListExpenses returns expenses whose date falls inside the inclusive
// range, in insertion order.
func (s *ExpenseService) ListExpenses(ctx context.Context, startDate, endDate string) ([]core.Expense, error) {
	return s.store.ListByDateRange(ctx, startDate, endDate)
}

// SummarizeExpenses returns per-category totals for the inclusive range.
// An empty category means no filter.
func (s *ExpenseService) SummarizeExpenses(ctx context.Context, startDate, endDate, category string) ([]core.CategoryTotal, error) {
	return s.store.Summarize(ctx, startDate, endDate, category)
}

func (s *ExpenseService) publishCreatedEvent(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping created event")
		return nil
	}

	return s.amqpClient.PublishExpenseCreated(ctx, id)
}

// Close closes both storage and AMQP connections
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
