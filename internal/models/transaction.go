package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts serialize as plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction is a single financial event owned by exactly one user.
// The date is assigned by the store at insert time, never by the client.
type Transaction struct {
	ID          int64           `json:"id" example:"1"`
	UserID      int64           `json:"-"`
	Description string          `json:"description" example:"Monthly rent"`
	Amount      decimal.Decimal `json:"amount" example:"1200.50"`
	Type        string          `json:"type" example:"expense"` // income | expense, caller-determined
	Category    string          `json:"category" example:"housing"`
	Account     string          `json:"account" example:"checking"`
	Currency    string          `json:"currency" example:"USD"`
	Notes       string          `json:"notes"`
	Recurring   bool            `json:"recurring"`
	Date        time.Time       `json:"date"`
}
