package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeHealth(t *testing.T) {
	testCases := []struct {
		name    string
		pingErr error
		status  int
		body    string
	}{
		{"database up", nil, http.StatusOK, `{"status":"ok","database":"up"}`},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, `{"status":"unavailable","database":"down"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer db.Close()
			mock.ExpectPing().WillReturnError(tc.pingErr)

			rec := httptest.NewRecorder()
			NewHandler(db, zap.NewNop()).ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestServeHealth_NoDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil, zap.NewNop()).ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
