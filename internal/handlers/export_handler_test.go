package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/financetracker/backend/internal/middleware"
	"github.com/financetracker/backend/internal/services"
	"github.com/stretchr/testify/assert"
)

var exportColumns = []string{"id", "description", "amount", "type", "category", "account", "currency", "notes", "recurring", "date"}

func exportRequest(target string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestExportHandler_ExportCSV(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	handler := NewExportHandler(services.NewExportService(db))

	t.Run("writes RFC 4180 CSV with quoted fields", func(t *testing.T) {
		mock.ExpectQuery("FROM transactions WHERE user_id =").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(exportColumns).
				AddRow(1, "Rent, August", "1200.5", "expense", "housing", "checking", "EUR", "", true, time.Date(2025, 8, 1, 8, 0, 0, 0, time.UTC)).
				AddRow(2, "Salary", "3000", "income", "work", "checking", "EUR", "", false, time.Date(2025, 8, 25, 9, 0, 0, 0, time.UTC)))

		w := httptest.NewRecorder()
		handler.ExportCSV(w, exportRequest("/api/export-csv", 7))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "transactions.csv")

		want := "Description,Amount,Type,Category,Account,Currency,Notes,Recurring,Date\n" +
			"\"Rent, August\",1200.5,expense,housing,checking,EUR,,true,2025-08-01 08:00:00\n" +
			"Salary,3000,income,work,checking,EUR,,false,2025-08-25 09:00:00\n"
		assert.Equal(t, want, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty history still writes the header row", func(t *testing.T) {
		mock.ExpectQuery("FROM transactions WHERE user_id =").
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows(exportColumns))

		w := httptest.NewRecorder()
		handler.ExportCSV(w, exportRequest("/api/export-csv", 8))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Description,Amount,Type,Category,Account,Currency,Notes,Recurring,Date\n", w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure answers 500", func(t *testing.T) {
		mock.ExpectQuery("FROM transactions WHERE user_id =").
			WithArgs(int64(9)).
			WillReturnError(assert.AnError)

		w := httptest.NewRecorder()
		handler.ExportCSV(w, exportRequest("/api/export-csv", 9))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExportHandler_BackupSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	handler := NewExportHandler(services.NewExportService(db))

	t.Run("emits replayable INSERT statements with escaped quotes", func(t *testing.T) {
		mock.ExpectQuery("FROM transactions WHERE user_id =").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(exportColumns).
				AddRow(3, "Bob's share", "42.75", "income", "misc", "cash", "EUR", "it's a note", false, time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)))

		w := httptest.NewRecorder()
		handler.BackupSQL(w, exportRequest("/api/backup", 7))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/sql", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "backup.sql")

		want := "INSERT INTO transactions (id, user_id, description, amount, type, category, account, currency, notes, recurring, date) " +
			"VALUES (3, 7, 'Bob''s share', 42.75, 'income', 'misc', 'cash', 'EUR', 'it''s a note', 0, '2025-08-10 12:00:00');\n"
		assert.Equal(t, want, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty history yields an empty script", func(t *testing.T) {
		mock.ExpectQuery("FROM transactions WHERE user_id =").
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows(exportColumns))

		w := httptest.NewRecorder()
		handler.BackupSQL(w, exportRequest("/api/backup", 8))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuoteSQL(t *testing.T) {
	assert.Equal(t, "'plain'", quoteSQL("plain"))
	assert.Equal(t, "''''", quoteSQL("'"))
	assert.Equal(t, "'it''s'", quoteSQL("it's"))
	assert.Equal(t, "''", quoteSQL(""))
}
