package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/yashsdhond/expense-tracker-mcp-server/assets"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/core"
	applog "github.com/yashsdhond/expense-tracker-mcp-server/internal/log"
)

type createExpenseRequest struct {
	Date        string   `json:"date"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Note        *string  `json:"note"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	case http.MethodGet:
		s.handleListExpenses(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id, err := s.svc.CreateExpense(r.Context(), req.Date, req.Amount, req.Category, req.Subcategory, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrMissingDate),
			errors.Is(err, core.ErrMissingAmount),
			errors.Is(err, core.ErrMissingCategory):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Create expense failed",
				applog.FieldError, err,
				applog.FieldDate, req.Date,
				applog.FieldCategory, req.Category)
			writeError(w, http.StatusInternalServerError, "failed to save expense")
		}
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{Status: "ok", ID: id})
}

// dateRange extracts the required start_date and end_date query params.
// Values are forwarded exactly as received: the range comparison is plain
// string comparison with no normalization.
func dateRange(r *http.Request) (start, end string, ok bool) {
	q := r.URL.Query()
	start = q.Get("start_date")
	end = q.Get("end_date")
	return start, end, start != "" && end != ""
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	start, end, ok := dateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}

	expenses, err := s.svc.ListExpenses(r.Context(), start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed",
			applog.FieldError, err,
			applog.FieldStartDate, start,
			applog.FieldEndDate, end)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, end, ok := dateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}
	// The filter is exact and unnormalized; whitespace is significant.
	category := r.URL.Query().Get("category")

	totals, err := s.svc.SummarizeExpenses(r.Context(), start, end, category)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summarize expenses failed",
			applog.FieldError, err,
			applog.FieldStartDate, start,
			applog.FieldEndDate, end,
			applog.FieldCategory, category)
		writeError(w, http.StatusInternalServerError, "failed to summarize expenses")
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

// handleCategories serves the embedded category document verbatim.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(assets.CategoriesJSON)
}

func (s *Server) handleCategorySuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	max := 3
	if v := strings.TrimSpace(r.URL.Query().Get("max")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "max must be a positive integer")
			return
		}
		max = n
	}

	suggestions := s.categories.Suggest(name, max)
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}
