package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlabs/design-arena/internal/config"
	"github.com/archlabs/design-arena/internal/model"
	"github.com/archlabs/design-arena/internal/repository"
)

func newAuthMock(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   5,
		RefreshTTLDays: 7,
		BcryptCost:     4, // minimum cost keeps the test fast
	}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func postJSON(t *testing.T, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterCoercesRoleToUser(t *testing.T) {
	h, mock := newAuthMock(t)

	// The requested ADMIN role must never reach the INSERT.
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), model.RoleUser).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := postJSON(t, "/v1/auth/register",
		`{"username":"alice","email":"Alice@Example.com","password":"hunter2","role":"ADMIN"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	var body authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.RoleUser, body.User.Role)
	assert.Equal(t, "alice@example.com", body.User.Email, "email is normalized")
	assert.NotEmpty(t, body.Access.Token)
	assert.NotEmpty(t, body.Refresh.Token)
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	h, mock := newAuthMock(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errDuplicate{})

	c, rec := postJSON(t, "/v1/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"hunter2"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// errDuplicate mimics the MySQL duplicate-entry error text.
type errDuplicate struct{}

func (errDuplicate) Error() string {
	return "Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'"
}

func TestRegisterMissingFields(t *testing.T) {
	h, _ := newAuthMock(t)

	c, rec := postJSON(t, "/v1/auth/register", `{"email":"a@b.c","password":"x"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
