package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingMailer stands in for an unreachable mail provider.
type failingMailer struct{}

func (failingMailer) Send(context.Context, string, string, string) error {
	return errors.New("smtp relay unreachable")
}

func TestRegisterAndLoginFlow(t *testing.T) {
	h := newTestServer(t).Handler()

	userID, token := registerAndLogin(t, h, "carol@example.com")
	assert.NotEmpty(t, userID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newTestServer(t).Handler()

	registerAndLogin(t, h, "carol@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/account/register", "", map[string]string{
		"email":    "carol@example.com",
		"password": "another-pass",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestRegisterMailFailureReturns502(t *testing.T) {
	h := newTestServerWith(t, failingMailer{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/account/register", "", map[string]string{
		"email":    "carol@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
}

func TestLoginThrottledReturns429(t *testing.T) {
	h := newTestServer(t).Handler()

	body := map[string]string{"email": "admin@moneta.local", "password": "wrong-password"}
	var saw429 bool
	for i := 0; i < 25; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/account/login", "", body)
		if rec.Code == http.StatusTooManyRequests {
			saw429 = true
			break
		}
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.True(t, saw429, "repeated login attempts should be throttled")
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/account/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/account/register", "", map[string]string{
		"email":    "carol@example.com",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPasswordReturns401(t *testing.T) {
	h := newTestServer(t).Handler()

	registerAndLogin(t, h, "carol@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/account/login", "", map[string]string{
		"email":    "carol@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestLogoutRequiresIdentity(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/account/logout", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	_, token := registerAndLogin(t, h, "carol@example.com")
	rec = doJSON(t, h, http.MethodPost, "/api/account/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePassword(t *testing.T) {
	h := newTestServer(t).Handler()

	_, token := registerAndLogin(t, h, "carol@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/account/change-password", token, map[string]string{
		"newPassword": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Old credential is dead, the new one signs in.
	rec = doJSON(t, h, http.MethodPost, "/api/account/login", "", map[string]string{
		"email":    "carol@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/account/login", "", map[string]string{
		"email":    "carol@example.com",
		"password": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyEmailBadRequest(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/account/verify-email", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/account/verify-email?userId=missing&token=x", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidBearerTokenRejected(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/financeAccounts", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}
