package services

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/financetracker/backend/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func authedRequest(method, target string, body string, userID int64) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestProfileService_GetProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewProfileService(db)

	t.Run("returns the profile fields", func(t *testing.T) {
		mock.ExpectQuery("SELECT first_name, last_name, email").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name", "email", "fax", "language"}).
				AddRow("John", "Doe", "john@example.com", "555-0100", "de"))

		w := httptest.NewRecorder()
		service.GetProfile(w, authedRequest(http.MethodGet, "/api/profile", "", 42))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"firstName":"John","lastName":"Doe","email":"john@example.com","fax":"555-0100","language":"de"}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user answers 404", func(t *testing.T) {
		mock.ExpectQuery("SELECT first_name, last_name, email").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		w := httptest.NewRecorder()
		service.GetProfile(w, authedRequest(http.MethodGet, "/api/profile", "", 99))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"User not found"}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileService_UpdatePassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewProfileService(db)

	t.Run("stores a new hash", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET password =").
			WithArgs(sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := httptest.NewRecorder()
		service.UpdatePassword(w, authedRequest(http.MethodPut, "/api/profile", `{"password":"newsecret"}`, 42))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty password rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		service.UpdatePassword(w, authedRequest(http.MethodPut, "/api/profile", `{"password":""}`, 42))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Password is required"}`, w.Body.String())
	})
}

func TestProfileService_UpdateLanguage(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewProfileService(db)

	t.Run("stores the language verbatim", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET language =").
			WithArgs("klingon", int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := httptest.NewRecorder()
		service.UpdateLanguage(w, authedRequest(http.MethodPost, "/api/language", `{"language":"klingon"}`, 42))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing language rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		service.UpdateLanguage(w, authedRequest(http.MethodPost, "/api/language", `{}`, 42))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Language is required"}`, w.Body.String())
	})
}
