package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/financetracker/backend/internal/middleware"
	"github.com/financetracker/backend/internal/services"
)

const timestampLayout = "2006-01-02 15:04:05"

// ExportHandler serves the transaction download endpoints: a CSV file of
// the caller's history and a SQL script that can restore it.
type ExportHandler struct {
	service *services.ExportService
}

func NewExportHandler(service *services.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ExportCSV streams the session user's transactions as an RFC 4180 CSV
// attachment. Fields containing commas, quotes or newlines are quoted by
// the encoder.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	transactions, err := h.service.FetchUserTransactions(userID)
	if err != nil {
		log.Printf("[EXPORT] CSV export failed for user %d: %v", userID, err)
		http.Error(w, "Failed to export transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=transactions.csv`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"Description", "Amount", "Type", "Category", "Account", "Currency", "Notes", "Recurring", "Date"})
	for _, tx := range transactions {
		cw.Write([]string{
			tx.Description,
			tx.Amount.String(),
			tx.Type,
			tx.Category,
			tx.Account,
			tx.Currency,
			tx.Notes,
			strconv.FormatBool(tx.Recurring),
			tx.Date.Format(timestampLayout),
		})
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		log.Printf("[EXPORT] CSV write failed for user %d: %v", userID, err)
	}
}

// BackupSQL streams the session user's transactions as INSERT statements.
// Replaying the script against an empty transactions table restores the
// rows, ids included.
func (h *ExportHandler) BackupSQL(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	transactions, err := h.service.FetchUserTransactions(userID)
	if err != nil {
		log.Printf("[EXPORT] SQL backup failed for user %d: %v", userID, err)
		http.Error(w, "Failed to back up transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/sql")
	w.Header().Set("Content-Disposition", `attachment; filename=backup.sql`)

	for _, tx := range transactions {
		recurring := 0
		if tx.Recurring {
			recurring = 1
		}
		fmt.Fprintf(w, "INSERT INTO transactions (id, user_id, description, amount, type, category, account, currency, notes, recurring, date) VALUES (%d, %d, %s, %s, %s, %s, %s, %s, %s, %d, %s);\n",
			tx.ID, tx.UserID,
			quoteSQL(tx.Description),
			tx.Amount.String(),
			quoteSQL(tx.Type),
			quoteSQL(tx.Category),
			quoteSQL(tx.Account),
			quoteSQL(tx.Currency),
			quoteSQL(tx.Notes),
			recurring,
			quoteSQL(tx.Date.Format(timestampLayout)))
	}
}

// quoteSQL renders s as a SQL string literal, doubling embedded single
// quotes.
func quoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
