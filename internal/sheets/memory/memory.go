// Package memory provides an in-memory ExpenseAppender for tests and
// local runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/yashsdhond/expense-tracker-mcp-server/internal/core"
	ports "github.com/yashsdhond/expense-tracker-mcp-server/internal/sheets"
)

type Client struct {
	mu   sync.Mutex
	rows []core.Expense
}

var _ ports.ExpenseAppender = (*Client)(nil)

func New() *Client {
	return &Client{}
}

func (c *Client) Append(_ context.Context, e core.Expense) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, e)
	return fmt.Sprintf("memory!A%d", len(c.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (c *Client) Rows() []core.Expense {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Expense, len(c.rows))
	copy(out, c.rows)
	return out
}
