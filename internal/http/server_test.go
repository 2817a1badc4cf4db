package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yashsdhond/expense-tracker-mcp-server/internal/categories"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/core"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/services"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/storage"
)

func newTestServer(t *testing.T, rateLimitPerMinute int) *Server {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cats, err := categories.Load()
	if err != nil {
		t.Fatalf("categories.Load() error = %v", err)
	}

	svc := services.NewExpenseService(store, nil)
	s := NewServer(":0", svc, cats, rateLimitPerMinute)
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateExpenseEndpoint(t *testing.T) {
	s := newTestServer(t, 1000)

	rec := doRequest(s, http.MethodPost, "/expenses",
		`{"date":"2024-03-01","amount":12.5,"category":"food","subcategory":"lunch","note":"pizza"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp createResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "ok" || resp.ID < 1 {
		t.Errorf("response = %+v, want status ok and positive id", resp)
	}
}

func TestCreateExpenseZeroAmountEndpoint(t *testing.T) {
	s := newTestServer(t, 1000)

	// An explicit zero amount is valid; only an absent amount is a 400.
	rec := doRequest(s, http.MethodPost, "/expenses",
		`{"date":"2024-03-01","amount":0,"category":"fees"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	list := doRequest(s, http.MethodGet, "/expenses?start_date=2024-03-01&end_date=2024-03-01", "")
	var got []core.Expense
	if err := json.Unmarshal(list.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].Amount != 0 {
		t.Errorf("stored rows = %+v, want one row with amount 0", got)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t, 1000)

	tests := []struct {
		name string
		body string
	}{
		{"missing date", `{"amount":10,"category":"food"}`},
		{"missing amount", `{"date":"2024-03-01","category":"food"}`},
		{"missing category", `{"date":"2024-03-01","amount":10}`},
		{"malformed json", `{"date":`},
		{"unknown field", `{"date":"2024-03-01","amount":10,"category":"food","bogus":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/expenses", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestListExpensesEndpoint(t *testing.T) {
	s := newTestServer(t, 1000)

	seed := []string{
		`{"date":"2024-03-01","amount":10,"category":"food"}`,
		`{"date":"2024-03-15","amount":20,"category":"transport"}`,
		`{"date":"2024-04-01","amount":30,"category":"food"}`,
	}
	for _, body := range seed {
		if rec := doRequest(s, http.MethodPost, "/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed failed: %s", rec.Body.String())
		}
	}

	t.Run("inclusive range", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/expenses?start_date=2024-03-01&end_date=2024-03-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var got []core.Expense
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d expenses, want 2", len(got))
		}
	})

	t.Run("empty range is an empty array", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/expenses?start_date=2025-01-01&end_date=2025-12-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("body = %s, want []", body)
		}
	})

	t.Run("missing params", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/expenses?start_date=2024-03-01", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t, 1000)

	seed := []string{
		`{"date":"2024-03-01","amount":10,"category":"food"}`,
		`{"date":"2024-03-02","amount":5,"category":"food"}`,
		`{"date":"2024-03-03","amount":20,"category":"transport"}`,
	}
	for _, body := range seed {
		if rec := doRequest(s, http.MethodPost, "/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed failed: %s", rec.Body.String())
		}
	}

	t.Run("all categories", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/summary?start_date=2024-03-01&end_date=2024-03-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var got []core.CategoryTotal
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got) != 2 || got[0].Category != "food" || got[0].TotalAmount != 15 {
			t.Errorf("summary = %+v, want food/15 first", got)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/summary?start_date=2024-03-01&end_date=2024-03-31&category=transport", "")
		var got []core.CategoryTotal
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got) != 1 || got[0].Category != "transport" || got[0].TotalAmount != 20 {
			t.Errorf("summary = %+v, want single transport/20 row", got)
		}
	})

	t.Run("filter is not normalized", func(t *testing.T) {
		// " food " must not match "food": the filter is exact, whitespace
		// included.
		rec := doRequest(s, http.MethodGet, "/summary?start_date=2024-03-01&end_date=2024-03-31&category=%20food%20", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var got []core.CategoryTotal
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("summary = %+v, want no rows for padded category", got)
		}
	})

	t.Run("missing params", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/summary", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t, 1000)

	rec := doRequest(s, http.MethodGet, "/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var doc struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Categories) == 0 {
		t.Error("categories document should not be empty")
	}
}

func TestCategorySuggestEndpoint(t *testing.T) {
	s := newTestServer(t, 1000)

	t.Run("suggests nearest category", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/categories/suggest?name=fod", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp map[string][]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(resp["suggestions"]) == 0 || resp["suggestions"][0] != "food" {
			t.Errorf("suggestions = %v, want food first", resp["suggestions"])
		}
	})

	t.Run("missing name", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/categories/suggest", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid max", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/categories/suggest?name=food&max=0", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestRateLimiting(t *testing.T) {
	s := newTestServer(t, 2)

	body := `{"date":"2024-03-01","amount":10,"category":"food"}`
	for i := 0; i < 2; i++ {
		if rec := doRequest(s, http.MethodPost, "/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	rec := doRequest(s, http.MethodPost, "/expenses", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}

	// GET requests are not rate limited
	if rec := doRequest(s, http.MethodGet, "/expenses?start_date=2024-01-01&end_date=2024-12-31", ""); rec.Code != http.StatusOK {
		t.Errorf("GET after limit: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, 1000)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodDelete, "/expenses"},
		{http.MethodPost, "/summary"},
		{http.MethodPost, "/categories"},
		{http.MethodPost, "/categories/suggest"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := doRequest(s, tt.method, tt.target, "")
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, 1000)

	for _, target := range []string{"/healthz", "/readyz"} {
		rec := doRequest(s, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want %d", target, rec.Code, http.StatusOK)
		}
	}
}
