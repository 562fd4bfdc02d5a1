package httpapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodbank/kodbank/internal/common"
	"github.com/kodbank/kodbank/internal/server/auth"
)

func TestAuthGuard_NoCookie(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{})

	w := doJSON(t, s, http.MethodGet, "/balance", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token provided", decodeBody(t, w)["message"])
}

func TestAuthGuard_RejectionsShareOneBody(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"garbage token", common.ErrInvalidToken},
		{"expired token", common.ErrTokenExpired},
		{"unknown subject", common.ErrorNotFound},
		{"not in registry", common.ErrorUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &fakeAccounts{authErr: tc.err})

			w := doJSON(t, s, http.MethodGet, "/balance", "",
				&http.Cookie{Name: "auth_token", Value: "whatever"})

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, "Invalid token", decodeBody(t, w)["message"],
				"every rejection cause must produce the same body")
		})
	}
}

func TestAuthGuard_InternalError(t *testing.T) {
	s := newTestServer(t, &fakeAccounts{authErr: errors.New("registry unreachable")})

	w := doJSON(t, s, http.MethodGet, "/balance", "",
		&http.Cookie{Name: "auth_token", Value: "tok"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decodeBody(t, w)["message"])
}

func TestAuthGuard_PassesSubjectToHandler(t *testing.T) {
	fake := &fakeAccounts{
		authClaims: &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"}, Role: "customer"},
		balance:    42,
	}
	s := newTestServer(t, fake)

	w := doJSON(t, s, http.MethodGet, "/balance", "",
		&http.Cookie{Name: "auth_token", Value: "tok"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", fake.balanceUser)
}
