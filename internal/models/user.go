package models

// User represents a registered account holder. The JSON shape matches the
// GET /api/profile response; the password hash is never serialized.
type User struct {
	ID        int64  `json:"-"`
	FirstName string `json:"firstName" example:"John"`
	LastName  string `json:"lastName" example:"Doe"`
	Email     string `json:"email" example:"user@example.com"`
	Fax       string `json:"fax"`
	Language  string `json:"language" example:"en"`
}
