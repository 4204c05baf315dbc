package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/moneta/internal/app"
	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/mailer"
	"github.com/bobmcallan/moneta/internal/services/finance"
	"github.com/bobmcallan/moneta/internal/services/identity"
	"github.com/bobmcallan/moneta/internal/storage"
)

// newTestServer wires a server over a fresh in-memory database with a
// bootstrapped admin account.
func newTestServer(t *testing.T) *Server {
	return newTestServerWith(t, nil)
}

// newTestServerWith accepts an outbound mailer; nil falls back to the
// log-only mailer.
func newTestServerWith(t *testing.T, outbound interfaces.Mailer) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()
	config.Bootstrap.AdminPassword = "admin-secret"

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	manager, err := storage.NewManager(logger, common.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	if outbound == nil {
		outbound = mailer.NewLogMailer(logger)
	}
	identitySvc := identity.NewService(manager, outbound, config, logger)
	require.NoError(t, identitySvc.EnsureDefaults(context.Background()))

	a := &app.App{
		Config:      config,
		Logger:      logger,
		Storage:     manager,
		Mailer:      outbound,
		Finance:     finance.NewService(manager, logger),
		Identity:    identitySvc,
		StartupTime: time.Now(),
	}

	return NewServer(a)
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// registerAndLogin creates a user and returns its id and bearer token.
func registerAndLogin(t *testing.T, h http.Handler, email string) (userID, token string) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/account/register", "", map[string]string{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = doJSON(t, h, http.MethodPost, "/api/account/login", "", map[string]string{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &login)
	require.NotEmpty(t, login.Token)

	return created.ID, login.Token
}

// adminLogin signs in the bootstrapped admin account.
func adminLogin(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/account/login", "", map[string]string{
		"email":    "admin@moneta.local",
		"password": "admin-secret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &login)
	return login.Token
}

func TestHealth(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestVersion(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/version", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	require.Contains(t, body, "version")
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodDelete, "/api/health", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestCorrelationIDHeader(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/health", "", nil)
	require.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-1234")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "req-1234", rec.Header().Get("X-Correlation-ID"))
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/financeAccounts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
