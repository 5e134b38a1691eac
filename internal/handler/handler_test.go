package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nova-maldives/the-hub/backend/internal/assistant"
	"github.com/nova-maldives/the-hub/backend/internal/config"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// 2024-06-01 10:00，营业日为 2024-06-01，默认班次为早班
var testNow = time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

const morningShift = "Morning Shift (07:00 - 16:00)"

type fakePublisher struct {
	sent []domain.MailMessage
	err  error
}

func (p *fakePublisher) Publish(msg domain.MailMessage) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

type fakeWeather string

func (w fakeWeather) Current(context.Context) string {
	return string(w)
}

type testEnv struct {
	handler *Handler
	mock    sqlmock.Sqlmock
	redis   *miniredis.Miniredis
	rdb     *redis.Client
	mailer  *fakePublisher
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 5
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.Redis.OperationExpiration = 5
	cfg.Session.Expiration = 3600
	cfg.OTP.Expiration = 900
	cfg.NewUser.PasswordLength = 12
	cfg.InitialAdmin.Username = "admin"

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	asst := assistant.NewAssistant(nil, rdb, assistant.Options{ResortName: "Nova Maldives", Timeout: time.Second, SuggestionTTL: time.Hour})
	mailer := &fakePublisher{}

	h, err := NewHandler(cfg, repository.NewRepository(cfg, db), mailer, rdb, asst, fakeWeather("Rainy, 28°C"), func() time.Time { return testNow })
	require.NoError(t, err)
	h.RegisterRoutes()

	return &testEnv{handler: h, mock: mock, redis: mr, rdb: rdb, mailer: mailer, cfg: cfg}
}

var userCols = []string{"id", "username", "password_hash", "name", "email", "role", "initials", "color", "created_at", "version"}

func userRows(u *domain.User) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(u.ID, u.Username, u.PasswordHash, u.Name, u.Email, string(u.Role), u.Initials, u.Color, testNow, u.Version)
}

func gsa() *domain.User {
	return &domain.User{ID: 2, Username: "aishath", Name: "Aishath Shifa", Role: domain.RoleGSA, Initials: "AS", Version: 1}
}

func fom() *domain.User {
	return &domain.User{ID: 1, Username: "admin", Name: "Mariyam Nadha", Email: "fom@nova-maldives.com", Role: domain.RoleFrontOfficeManager, Initials: "MN", Version: 1}
}

// expectMyInfo 对应 myInfo 中间件读取当前用户
func (e *testEnv) expectMyInfo(u *domain.User) {
	e.mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(u.ID).WillReturnRows(userRows(u))
}

func (e *testEnv) token(t *testing.T, u *domain.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   strconv.FormatInt(u.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(e.cfg.JWT.Secret))
	require.NoError(t, err)
	return ss
}

func (e *testEnv) serve(t *testing.T, req *http.Request, u *domain.User) *httptest.ResponseRecorder {
	t.Helper()
	if u != nil {
		req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: e.token(t, u)})
	}
	rec := httptest.NewRecorder()
	e.handler.Mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) do(t *testing.T, method, path string, body any, u *domain.User) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := e.serve(t, req, u)

	var resp Response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// seedShift 把班次写入用户的会话
func (e *testEnv) seedShift(t *testing.T, userID int64, shift *domain.ShiftData) {
	t.Helper()
	data, err := json.Marshal(shift)
	require.NoError(t, err)
	require.NoError(t, e.redis.Set("session_"+strconv.FormatInt(userID, 10)+"_shift", string(data)))
}

func (e *testEnv) sessionShift(t *testing.T, userID int64) *domain.ShiftData {
	t.Helper()
	data, err := e.redis.Get("session_" + strconv.FormatInt(userID, 10) + "_shift")
	require.NoError(t, err)
	shift := &domain.ShiftData{}
	require.NoError(t, json.Unmarshal([]byte(data), shift))
	return shift
}

// decodeData 把响应中的 data 重新解码到 v
func decodeData(t *testing.T, resp Response, v any) {
	t.Helper()
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
