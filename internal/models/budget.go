package models

import "github.com/shopspring/decimal"

// Budget is one row of a user's append-only budget log. Setting a budget
// inserts a new row; the current budget is the row with the highest id.
type Budget struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"-"`
	Amount decimal.Decimal `json:"amount"`
}
