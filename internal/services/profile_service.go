package services

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/financetracker/backend/internal/middleware"
	"github.com/financetracker/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type ProfileService struct {
	db        *sql.DB
	validator *ValidationHelper
}

// UpdatePasswordRequest carries the new password. There is deliberately no
// current-password confirmation; see DESIGN.md for the open question.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// UpdateLanguageRequest carries the preferred language, stored verbatim.
type UpdateLanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{
		db:        db,
		validator: NewValidationHelper(),
	}
}

// GetProfile returns the session user's profile fields.
func (s *ProfileService) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var user models.User
	err := s.db.QueryRow("SELECT first_name, last_name, email, COALESCE(fax, ''), language FROM users WHERE id = ?", userID).
		Scan(&user.FirstName, &user.LastName, &user.Email, &user.Fax, &user.Language)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("[PROFILE] User not found for ID: %d", userID)
			SendErrorResponse(w, "User not found", http.StatusNotFound, nil)
		} else {
			log.Printf("[PROFILE] Failed to fetch user %d: %v", userID, err)
			SendErrorResponse(w, "Failed to fetch profile", http.StatusInternalServerError, nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdatePassword re-hashes and overwrites the session user's password.
func (s *ProfileService) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req UpdatePasswordRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Password is required", http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[PROFILE] Password hashing failed for user %d: %v", userID, err)
		SendErrorResponse(w, "An internal error occurred", http.StatusInternalServerError, nil)
		return
	}

	if _, err := s.db.Exec("UPDATE users SET password = ? WHERE id = ?", string(hashedPassword), userID); err != nil {
		log.Printf("[PROFILE] Password update failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to update password", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[PROFILE] Password updated for user %d", userID)
	SendSuccessResponse(w)
}

// UpdateLanguage stores the preferred language string as given, with no
// enumeration check.
func (s *ProfileService) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req UpdateLanguageRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Language is required", http.StatusBadRequest, err)
		return
	}

	if _, err := s.db.Exec("UPDATE users SET language = ? WHERE id = ?", req.Language, userID); err != nil {
		log.Printf("[PROFILE] Language update failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to update language", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[PROFILE] Language updated for user %d", userID)
	SendSuccessResponse(w)
}
