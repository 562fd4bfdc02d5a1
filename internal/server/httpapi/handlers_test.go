package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodbank/kodbank/internal/common"
	"github.com/kodbank/kodbank/internal/logging"
	"github.com/kodbank/kodbank/internal/server/auth"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeAccounts struct {
	registerErr error

	loginToken   string
	loginExpires time.Time
	loginErr     error

	authClaims *auth.Claims
	authErr    error

	balance     int64
	balanceErr  error
	balanceUser string

	logoutErr      error
	loggedOutToken string
}

func (f *fakeAccounts) Register(ctx context.Context, id int64, username, email, password string, phone *string) error {
	return f.registerErr
}

func (f *fakeAccounts) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if f.loginErr != nil {
		return "", time.Time{}, f.loginErr
	}
	return f.loginToken, f.loginExpires, nil
}

func (f *fakeAccounts) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.authClaims, nil
}

func (f *fakeAccounts) Balance(ctx context.Context, username string) (int64, error) {
	f.balanceUser = username
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeAccounts) Logout(ctx context.Context, token string) error {
	f.loggedOutToken = token
	return f.logoutErr
}

func newTestServer(t *testing.T, accounts AccountService) *Server {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	return NewServer(":0", logger, accounts, []string{"http://localhost:5173"})
}

func doJSON(t *testing.T, s *Server, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPing(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{})

	w := doJSON(t, s, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decodeBody(t, w)["message"])
}

func TestRegister_Created(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{})

	w := doJSON(t, s, http.MethodPost, "/register",
		`{"identity":1,"username":"alice","email":"a@x.com","secret":"pw123"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully", decodeBody(t, w)["message"])
}

func TestRegister_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", common.ErrorValidation, http.StatusBadRequest},
		{"duplicate", common.ErrorAlreadyExists, http.StatusConflict},
		{"internal", common.ErrorInternal, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &fakeAccounts{registerErr: tc.err})
			w := doJSON(t, s, http.MethodPost, "/register",
				`{"identity":1,"username":"alice","email":"a@x.com","secret":"pw123"}`)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestRegister_MalformedJSON(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{})

	w := doJSON(t, s, http.MethodPost, "/register", `{"identity":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_SetsHTTPOnlyCookie(t *testing.T) {
	fake := &fakeAccounts{loginToken: "tok-123", loginExpires: time.Now().Add(time.Hour)}
	s := newTestServer(t, fake)

	w := doJSON(t, s, http.MethodPost, "/login", `{"username":"alice","secret":"pw123"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, "alice", body["username"])

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "auth_token", c.Name)
	assert.Equal(t, "tok-123", c.Value)
	assert.True(t, c.HttpOnly, "session cookie must be HTTP-only")
	assert.InDelta(t, 3600, c.MaxAge, 5)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{loginErr: common.ErrorUnauthorized})

	w := doJSON(t, s, http.MethodPost, "/login", `{"username":"alice","secret":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, w)["message"])
	assert.Empty(t, w.Result().Cookies(), "no cookie on failed login")
}

func TestLogin_InternalError(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{loginErr: errors.New("db down")})

	w := doJSON(t, s, http.MethodPost, "/login", `{"username":"alice","secret":"pw123"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBalance_OK(t *testing.T) {
	fake := &fakeAccounts{
		authClaims: &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}, Role: "customer"},
		balance:    100000,
	}
	s := newTestServer(t, fake)

	w := doJSON(t, s, http.MethodGet, "/balance", "", &http.Cookie{Name: "auth_token", Value: "tok"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 100000, decodeBody(t, w)["balance"])
	assert.Equal(t, "alice", fake.balanceUser, "balance must be fetched for the token subject")
}

func TestBalance_UserVanished(t *testing.T) {
	fake := &fakeAccounts{
		authClaims: &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}, Role: "customer"},
		balanceErr: common.ErrorNotFound,
	}
	s := newTestServer(t, fake)

	w := doJSON(t, s, http.MethodGet, "/balance", "", &http.Cookie{Name: "auth_token", Value: "tok"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogout_ClearsCookieAndRevokes(t *testing.T) {
	fake := &fakeAccounts{}
	s := newTestServer(t, fake)

	w := doJSON(t, s, http.MethodPost, "/logout", "", &http.Cookie{Name: "auth_token", Value: "tok-9"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out", decodeBody(t, w)["message"])
	assert.Equal(t, "tok-9", fake.loggedOutToken)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogout_RevocationFailureStillClearsCookie(t *testing.T) {
	fake := &fakeAccounts{logoutErr: common.ErrorInternal}
	s := newTestServer(t, fake)

	w := doJSON(t, s, http.MethodPost, "/logout", "", &http.Cookie{Name: "auth_token", Value: "tok"})

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogout_WithoutCookie(t *testing.T) {
	fake := &fakeAccounts{}
	s := newTestServer(t, fake)

	w := doJSON(t, s, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, fake.loggedOutToken)
}

func TestCORS_PreflightAllowsConfiguredOrigin(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{})

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RejectsUnknownOrigin(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{})

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
