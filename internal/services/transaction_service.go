package services

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/financetracker/backend/internal/middleware"
	"github.com/financetracker/backend/internal/models"
	"github.com/financetracker/backend/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type TransactionService struct {
	db       *sql.DB
	sessions session.Store
}

// TransactionRequest carries the client-supplied transaction fields. The
// creation timestamp is server-assigned and never part of the payload.
// Amounts are not validated: sign conventions are caller-determined.
type TransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Account     string          `json:"account"`
	Currency    string          `json:"currency"`
	Notes       string          `json:"notes"`
	Recurring   bool            `json:"recurring"`
}

func NewTransactionService(db *sql.DB, sessions session.Store) *TransactionService {
	return &TransactionService{
		db:       db,
		sessions: sessions,
	}
}

func decodeTransactionRequest(w http.ResponseWriter, r *http.Request) (*TransactionRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req TransactionRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return nil, false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return nil, false
	}

	return &req, true
}

// CreateTransaction inserts a transaction owned by the session user. The
// date column takes its server-side default.
func (ts *TransactionService) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	req, ok := decodeTransactionRequest(w, r)
	if !ok {
		return
	}

	_, err := ts.db.Exec(`INSERT INTO transactions
		(user_id, description, amount, type, category, account, currency, notes, recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, req.Description, req.Amount, req.Type, req.Category,
		req.Account, req.Currency, req.Notes, req.Recurring)
	if err != nil {
		log.Printf("[TRANSACTION] Insert failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to save transaction", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[TRANSACTION] Created transaction for user %d", userID)
	SendSuccessResponse(w)
}

// ListTransactions returns the caller's transactions with optional filters:
// search (substring on description), type and category (exact match),
// composed with AND. Unlike the other endpoints this one answers an empty
// array, not a 401, when no session is present, and the same on store
// failure. Clients render the empty list either way.
func (ts *TransactionService) ListTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	transactions := []models.Transaction{}

	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		json.NewEncoder(w).Encode(transactions)
		return
	}

	userID, err := ts.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		json.NewEncoder(w).Encode(transactions)
		return
	}

	query := `SELECT id, description, amount, type, category, account, currency, notes, recurring, date
		FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if search := r.URL.Query().Get("search"); search != "" {
		query += " AND description LIKE ?"
		args = append(args, "%"+search+"%")
	}
	if txType := r.URL.Query().Get("type"); txType != "" {
		query += " AND type = ?"
		args = append(args, txType)
	}
	if category := r.URL.Query().Get("category"); category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	query += " ORDER BY date DESC, id DESC"

	rows, err := ts.db.Query(query, args...)
	if err != nil {
		log.Printf("[TRANSACTION] List failed for user %d: %v", userID, err)
		json.NewEncoder(w).Encode(transactions)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var tx models.Transaction
		tx.UserID = userID
		if err := rows.Scan(&tx.ID, &tx.Description, &tx.Amount, &tx.Type, &tx.Category,
			&tx.Account, &tx.Currency, &tx.Notes, &tx.Recurring, &tx.Date); err != nil {
			log.Printf("[TRANSACTION] Row scan failed for user %d: %v", userID, err)
			json.NewEncoder(w).Encode([]models.Transaction{})
			return
		}
		transactions = append(transactions, tx)
	}

	json.NewEncoder(w).Encode(transactions)
}

// UpdateTransaction overwrites every client-supplied field of the row
// matching both the transaction id and the session user. A non-matching id
// (missing or owned by someone else) touches zero rows and still reports
// success.
func (ts *TransactionService) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid transaction id", http.StatusBadRequest, nil)
		return
	}

	req, ok := decodeTransactionRequest(w, r)
	if !ok {
		return
	}

	_, err = ts.db.Exec(`UPDATE transactions
		SET description = ?, amount = ?, type = ?, category = ?, account = ?, currency = ?, notes = ?, recurring = ?
		WHERE id = ? AND user_id = ?`,
		req.Description, req.Amount, req.Type, req.Category, req.Account,
		req.Currency, req.Notes, req.Recurring, id, userID)
	if err != nil {
		log.Printf("[TRANSACTION] Update failed for id %d, user %d: %v", id, userID, err)
		SendErrorResponse(w, "Failed to update transaction", http.StatusInternalServerError, nil)
		return
	}

	SendSuccessResponse(w)
}

// DeleteTransaction removes the row matching both id and owner. Deleting a
// missing or foreign id affects zero rows and reports success.
func (ts *TransactionService) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid transaction id", http.StatusBadRequest, nil)
		return
	}

	_, err = ts.db.Exec("DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		log.Printf("[TRANSACTION] Delete failed for id %d, user %d: %v", id, userID, err)
		SendErrorResponse(w, "Failed to delete transaction", http.StatusInternalServerError, nil)
		return
	}

	SendSuccessResponse(w)
}
