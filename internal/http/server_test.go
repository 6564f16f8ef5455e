package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paisa/internal/advisor"
	"paisa/internal/services"
	"paisa/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	now := time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)
	svc := services.NewBudgetService(memory.New(), nil).
		WithClock(func() time.Time { return now })

	s := NewServer(":0", svc, advisor.New())
	t.Cleanup(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
	})
	return s
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCreateAndListExpenses(t *testing.T) {
	s := newTestServer(t)

	body := `{"amount":12.34,"date":"2025-09-15","description":"groceries","category":"Food","payment_method":"upi"}`
	rec := doRequest(s, http.MethodPost, "/api/expenses", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var created createExpenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Expense.ID == "" {
		t.Error("expected an assigned expense ID")
	}
	if created.Expense.Amount.Cents != 1234 {
		t.Errorf("amount = %d cents, want 1234", created.Expense.Amount.Cents)
	}

	rec = doRequest(s, http.MethodGet, "/api/expenses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", rec.Code)
	}
	var listed []expenseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.Expense.ID {
		t.Errorf("listed = %+v, want the created expense", listed)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"amount":`, http.StatusBadRequest},
		{"zero amount", `{"amount":0,"date":"2025-09-15","description":"x","category":"Food","payment_method":"cash"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"amount":5,"date":"15/09/2025","description":"x","category":"Food","payment_method":"cash"}`, http.StatusUnprocessableEntity},
		{"empty category", `{"amount":5,"date":"2025-09-15","description":"x","category":"","payment_method":"cash"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/api/expenses", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestDeleteExpense(t *testing.T) {
	s := newTestServer(t)

	body := `{"amount":5,"date":"2025-09-15","description":"x","category":"Food","payment_method":"cash"}`
	rec := doRequest(s, http.MethodPost, "/api/expenses", body)
	var created createExpenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = doRequest(s, http.MethodDelete, "/api/expenses/"+created.Expense.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", rec.Code)
	}

	rec = doRequest(s, http.MethodDelete, "/api/expenses/"+created.Expense.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", rec.Code)
	}
}

func TestBudgetAndSummary(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/api/budget", `{"budget":10000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT budget status = %d, want 200", rec.Code)
	}

	for _, body := range []string{
		`{"amount":3500,"date":"2025-09-10","description":"meals","category":"Food","payment_method":"upi"}`,
		`{"amount":800,"date":"2025-09-12","description":"bus pass","category":"Travel","payment_method":"card"}`,
	} {
		if rec := doRequest(s, http.MethodPost, "/api/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed expense failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec = doRequest(s, http.MethodGet, "/api/summary?year=2025&month=9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET summary status = %d, want 200", rec.Code)
	}

	var summary summaryDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Total.Cents != 4300_00 {
		t.Errorf("total = %d, want 430000", summary.Total.Cents)
	}
	if summary.Savings.Cents != 5700_00 {
		t.Errorf("savings = %d, want 570000", summary.Savings.Cents)
	}
	if len(summary.Overspend) != 1 || summary.Overspend[0].Category != "Food" {
		t.Errorf("overspend = %+v, want single Food alert", summary.Overspend)
	}
}

func TestSummaryCacheInvalidatedOnWrite(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodPut, "/api/budget", `{"budget":10000}`); rec.Code != http.StatusOK {
		t.Fatalf("PUT budget failed: %d", rec.Code)
	}

	// Prime the cache.
	doRequest(s, http.MethodGet, "/api/summary?year=2025&month=9", "")

	body := `{"amount":100,"date":"2025-09-14","description":"snack","category":"Food","payment_method":"cash"}`
	if rec := doRequest(s, http.MethodPost, "/api/expenses", body); rec.Code != http.StatusCreated {
		t.Fatalf("POST expense failed: %d", rec.Code)
	}

	rec := doRequest(s, http.MethodGet, "/api/summary?year=2025&month=9", "")
	var summary summaryDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Total.Cents != 100_00 {
		t.Errorf("total = %d, want 10000 after cache invalidation", summary.Total.Cents)
	}
}

func TestCapsUpsert(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/api/caps", `{"category":"Food","limit":2000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT caps status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	// Upsert replaces the limit for the same category.
	rec = doRequest(s, http.MethodPut, "/api/caps", `{"category":"Food","limit":3000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second PUT caps status = %d, want 200", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/caps", "")
	var caps []capDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &caps); err != nil {
		t.Fatalf("decode caps: %v", err)
	}
	if len(caps) != 1 || caps[0].Limit.Cents != 3000_00 {
		t.Errorf("caps = %+v, want single Food cap at 300000", caps)
	}
}

func TestSubscriptionsAndUpcoming(t *testing.T) {
	s := newTestServer(t)

	body := `{"name":"Streaming","amount":4.99,"cycle":"monthly","next_payment":"2025-09-16","payment_method":"upi"}`
	rec := doRequest(s, http.MethodPost, "/api/subscriptions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST subscription status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodGet, "/api/subscriptions/upcoming", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET upcoming status = %d, want 200", rec.Code)
	}
	var upcoming []upcomingPaymentDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &upcoming); err != nil {
		t.Fatalf("decode upcoming: %v", err)
	}
	if len(upcoming) != 1 || !upcoming[0].Urgent {
		t.Errorf("upcoming = %+v, want one urgent entry", upcoming)
	}
}

func TestAdvisorEndpoint(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodPut, "/api/budget", `{"budget":10000}`); rec.Code != http.StatusOK {
		t.Fatalf("PUT budget failed: %d", rec.Code)
	}

	rec := doRequest(s, http.MethodPost, "/api/advisor", `{"message":"show my spending summary"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST advisor status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var reply advisorResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if !reply.Matched {
		t.Error("expected the summary rule to match")
	}
	if !strings.Contains(reply.Reply, "10000.00") {
		t.Errorf("reply should mention the budget:\n%s", reply.Reply)
	}

	rec = doRequest(s, http.MethodPost, "/api/advisor", `{"message":"   "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty message status = %d, want 422", rec.Code)
	}
}

func TestFeedbackRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/feedback", `{"message":"great app","rating":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST feedback status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodPost, "/api/feedback", `{"message":"bad rating","rating":9}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid rating status = %d, want 422", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/feedback", "")
	var listed []feedbackDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	if len(listed) != 1 || listed[0].Date != "2025-09-15" {
		t.Errorf("feedback = %+v, want one entry dated 2025-09-15", listed)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPatch, "/api/expenses", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, POST" {
		t.Errorf("Allow = %q, want \"GET, POST\"", allow)
	}
}
