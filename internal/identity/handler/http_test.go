package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"org-membership-service/internal/identity/domain"
	"org-membership-service/internal/identity/service"
	"org-membership-service/internal/platform/apperr"
	userdomain "org-membership-service/internal/user/domain"
)

type fakeAuth struct {
	gotReg   domain.Registration
	gotCreds domain.Credentials
	session  *domain.Session
	err      error
}

func (f *fakeAuth) Register(_ context.Context, in domain.Registration) (*domain.Session, error) {
	f.gotReg = in
	return f.session, f.err
}

func (f *fakeAuth) Login(_ context.Context, in domain.Credentials) (*domain.Session, error) {
	f.gotCreds = in
	return f.session, f.err
}

func testSession() *domain.Session {
	return &domain.Session{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
		User: &userdomain.User{
			ID:           "u1",
			FirstName:    "John",
			LastName:     "Doe",
			Email:        "john@example.com",
			PasswordHash: "$2a$12$secret",
		},
	}
}

func serve(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	Routes(h).ServeHTTP(rec, req)
	return rec
}

func TestHandleRegister_Created(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	rec := serve(NewHandler(auth, zap.NewNop()), http.MethodPost, "/register",
		`{"firstName":"John","lastName":"Doe","email":"john@example.com","password":"pw"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "john@example.com", auth.gotReg.Email)
	assert.NotContains(t, rec.Body.String(), "secret")

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AccessToken string             `json:"accessToken"`
			User        userdomain.Profile `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "Registration successful", body.Message)
	assert.Equal(t, "tok", body.Data.AccessToken)
	assert.Equal(t, "u1", body.Data.User.UserID)
}

func TestHandleRegister_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		body   string
		err    error
		status int
		want   string
	}{
		{"malformed json", `{"firstName":`, nil, http.StatusUnprocessableEntity, `"field":"body"`},
		{"wrong type", `{"firstName":123}`, nil, http.StatusUnprocessableEntity, "Expected string, received number"},
		{"service validation", `{}`, apperr.Validation([]apperr.FieldError{{Field: "email", Message: "Required"}}),
			http.StatusUnprocessableEntity, `"errors"`},
		{"duplicate email", `{}`, service.ErrEmailAlreadyRegistered, http.StatusUnprocessableEntity, "Registration unsuccessful"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &fakeAuth{err: tc.err}
			rec := serve(NewHandler(auth, zap.NewNop()), http.MethodPost, "/register", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestHandleLogin(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	rec := serve(NewHandler(auth, zap.NewNop()), http.MethodPost, "/login",
		`{"email":"john@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login successful")
	assert.Equal(t, "pw", auth.gotCreds.Password)

	auth = &fakeAuth{err: service.ErrInvalidCredentials}
	rec = serve(NewHandler(auth, zap.NewNop()), http.MethodPost, "/login", `{"email":"x@y.z","password":"no"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"statusCode":401`)
	assert.Contains(t, rec.Body.String(), "Authentication failed")
}
