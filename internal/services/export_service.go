package services

import (
	"database/sql"

	"github.com/financetracker/backend/internal/models"
)

// ExportService reads a user's full transaction history for the download
// endpoints. Rendering lives in the handler layer.
type ExportService struct {
	db *sql.DB
}

func NewExportService(db *sql.DB) *ExportService {
	return &ExportService{db: db}
}

// FetchUserTransactions returns every transaction owned by userID in
// insertion order.
func (s *ExportService) FetchUserTransactions(userID int64) ([]models.Transaction, error) {
	rows, err := s.db.Query(`SELECT id, description, amount, type, category, account, currency, notes, recurring, date
		FROM transactions WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		tx.UserID = userID
		if err := rows.Scan(&tx.ID, &tx.Description, &tx.Amount, &tx.Type, &tx.Category,
			&tx.Account, &tx.Currency, &tx.Notes, &tx.Recurring, &tx.Date); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}
