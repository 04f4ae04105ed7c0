package services

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/financetracker/backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type BudgetService struct {
	db *sql.DB
}

// BudgetRequest carries the budget amount to append.
type BudgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SummaryResponse aggregates the caller's transactions over the requested
// period. Budget is nil when the user never set one, which serializes as
// JSON null.
type SummaryResponse struct {
	Income  decimal.Decimal  `json:"income"`
	Expense decimal.Decimal  `json:"expense"`
	Balance decimal.Decimal  `json:"balance"`
	Budget  *decimal.Decimal `json:"budget"`
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

// SetBudget appends a budget row for the session user. Earlier rows are
// never updated or deleted; the newest row wins at read time.
func (s *BudgetService) SetBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req BudgetRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if _, err := s.db.Exec("INSERT INTO budgets (user_id, amount) VALUES (?, ?)", userID, req.Amount); err != nil {
		log.Printf("[BUDGET] Insert failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to save budget", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[BUDGET] Budget set for user %d", userID)
	SendSuccessResponse(w)
}

// periodRange returns the [start, end) window for the given period anchored
// at now. Bounds are formatted to match the stored timestamp text so the
// comparison in SQL stays lexicographic-safe.
func periodRange(period string, now time.Time) (string, string, bool) {
	now = now.UTC()

	var start, end time.Time
	switch period {
	case "monthly":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	case "yearly":
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, 0)
	default:
		return "", "", false
	}

	const layout = "2006-01-02 15:04:05"
	return start.Format(layout), end.Format(layout), true
}

// GetSummary reports income, expense and balance for the current month or
// year, plus the most recently set budget. Rows dated outside the window
// are excluded; the window follows the server clock in UTC.
func (s *BudgetService) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "monthly"
	}

	start, end, ok := periodRange(period, time.Now())
	if !ok {
		SendErrorResponse(w, "Invalid period", http.StatusBadRequest, nil)
		return
	}

	var income, expense decimal.Decimal
	err := s.db.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, start, end).Scan(&income, &expense)
	if err != nil {
		log.Printf("[BUDGET] Summary query failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to compute summary", http.StatusInternalServerError, nil)
		return
	}

	summary := SummaryResponse{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}

	var budget decimal.Decimal
	err = s.db.QueryRow("SELECT amount FROM budgets WHERE user_id = ? ORDER BY id DESC LIMIT 1", userID).Scan(&budget)
	switch {
	case err == sql.ErrNoRows:
		// no budget ever set; leave it null
	case err != nil:
		log.Printf("[BUDGET] Budget lookup failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to compute summary", http.StatusInternalServerError, nil)
		return
	default:
		summary.Budget = &budget
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
