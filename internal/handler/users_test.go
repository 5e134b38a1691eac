package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_MailsPassword(t *testing.T) {
	env := newTestEnv(t)
	env.expectMyInfo(fom())
	env.mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ibrahim", sqlmock.AnyArg(), "Ibrahim Naseem", "ibrahim@nova-maldives.com", "GSA", "IN", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "version"}).AddRow(9, testNow, 1))

	_, resp := env.do(t, http.MethodPost, "/users", map[string]string{
		"username": "ibrahim",
		"name":     "Ibrahim Naseem",
		"email":    "ibrahim@nova-maldives.com",
		"role":     "GSA",
	}, fom())

	require.True(t, resp.Success, resp.Message)
	var got domain.User
	decodeData(t, resp, &got)
	assert.Equal(t, int64(9), got.ID)
	assert.Equal(t, "IN", got.Initials)
	assert.NotEmpty(t, got.Color)

	require.Len(t, env.mailer.sent, 1)
	data := env.mailer.sent[0].Data.(domain.CreateUserMailData)
	assert.Len(t, data.Password, 12)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateUser_RequiresPasswordWithoutEmail(t *testing.T) {
	env := newTestEnv(t)
	env.expectMyInfo(fom())

	_, resp := env.do(t, http.MethodPost, "/users", map[string]string{"username": "hassan", "name": "Hassan", "role": "GSA"}, fom())

	assert.False(t, resp.Success)
	assert.Equal(t, "Password is required when no email is set", resp.Message)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	env := newTestEnv(t)
	env.expectMyInfo(fom())

	_, resp := env.do(t, http.MethodPost, "/users", map[string]string{"username": "hassan", "name": "Hassan", "role": "Butler", "password": "long-enough"}, fom())

	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid role", resp.Message)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.expectMyInfo(fom())
	env.mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, resp := env.do(t, http.MethodPost, "/users", map[string]string{"username": "aishath", "name": "Aishath", "role": "GSA", "password": "long-enough"}, fom())

	assert.False(t, resp.Success)
	assert.Equal(t, "Username already exists", resp.Message)
	assert.Empty(t, env.mailer.sent)
}

func TestCreateUser_OnlyFrontOfficeManager(t *testing.T) {
	env := newTestEnv(t)
	asst := &domain.User{ID: 3, Username: "ahmed", Name: "Ahmed Ali", Role: domain.RoleAsstFOM}
	env.expectMyInfo(asst)

	_, resp := env.do(t, http.MethodPost, "/users", map[string]string{"username": "x", "name": "X", "role": "GSA", "password": "long-enough"}, asst)

	assert.False(t, resp.Success)
	assert.Equal(t, "Permission denied", resp.Message)
}

func TestUpdateUser_InitialAdminProtected(t *testing.T) {
	env := newTestEnv(t)
	env.expectMyInfo(fom())
	env.mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(1)).WillReturnRows(userRows(fom()))

	_, resp := env.do(t, http.MethodPatch, "/users/1", map[string]string{"name": "Someone Else"}, fom())

	assert.False(t, resp.Success)
	assert.Equal(t, "The initial administrator cannot be modified", resp.Message)
}

func TestUpdateUser_RefreshesInitials(t *testing.T) {
	env := newTestEnv(t)
	target := gsa()
	env.expectMyInfo(fom())
	env.mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(2)).WillReturnRows(userRows(target))
	env.mock.ExpectQuery(`UPDATE users`).
		WithArgs("aishath", "", "Fathimath Zahra", "", "GSA", "FZ", "", int64(2), int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "version"}).AddRow(testNow, 2))

	_, resp := env.do(t, http.MethodPatch, "/users/2", map[string]string{"name": "Fathimath Zahra"}, fom())

	require.True(t, resp.Success, resp.Message)
	var got domain.User
	decodeData(t, resp, &got)
	assert.Equal(t, "FZ", got.Initials)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
