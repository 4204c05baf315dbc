package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/models"
	"github.com/bobmcallan/moneta/internal/services/finance"
	"github.com/bobmcallan/moneta/internal/services/identity"
	"github.com/bobmcallan/moneta/internal/storage"
)

type silentMailer struct{}

func (silentMailer) Send(context.Context, string, string, string) error { return nil }

func newTestHandler(t *testing.T) (*Handler, *identity.Service) {
	t.Helper()

	logger := common.NewSilentLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	manager, err := storage.NewManager(logger, common.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	config := common.NewDefaultConfig()
	config.Bootstrap.AdminPassword = "admin-secret"

	identitySvc := identity.NewService(manager, silentMailer{}, config, logger)
	require.NoError(t, identitySvc.EnsureDefaults(context.Background()))

	h, err := NewHandler(finance.NewService(manager, logger), identitySvc, logger)
	require.NoError(t, err)
	return h, identitySvc
}

type gqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// exec posts a GraphQL query, optionally with a resolved identity on the
// request context (standing in for the bearer middleware).
func exec(t *testing.T, h *Handler, id *common.Identity, query string, variables map[string]interface{}) gqlResponse {
	t.Helper()

	raw, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/graphql", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if id != nil {
		req = req.WithContext(common.WithIdentity(req.Context(), id))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func registerUser(t *testing.T, h *Handler, email string) string {
	t.Helper()

	resp := exec(t, h, nil, `mutation($email: String!, $password: String!) {
		register(email: $email, password: $password) { id email }
	}`, map[string]interface{}{"email": email, "password": "hunter22"})
	require.Empty(t, resp.Errors)

	user := resp.Data["register"].(map[string]interface{})
	return user["id"].(string)
}

func TestQueriesRequireIdentity(t *testing.T) {
	h, _ := newTestHandler(t)

	resp := exec(t, h, nil, `{ financeAccounts { id } }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "authentication required")
}

func TestRegisterAndLoginMutations(t *testing.T) {
	h, _ := newTestHandler(t)

	userID := registerUser(t, h, "dave@example.com")
	assert.NotEmpty(t, userID)

	resp := exec(t, h, nil, `mutation {
		login(email: "dave@example.com", password: "hunter22") { token user { id email } }
	}`, nil)
	require.Empty(t, resp.Errors)

	payload := resp.Data["login"].(map[string]interface{})
	assert.NotEmpty(t, payload["token"])

	resp = exec(t, h, nil, `mutation {
		login(email: "dave@example.com", password: "wrong") { token }
	}`, nil)
	require.NotEmpty(t, resp.Errors)
}

func TestLoginMutationThrottled(t *testing.T) {
	h, _ := newTestHandler(t)

	query := `mutation {
		login(email: "admin@moneta.local", password: "wrong-password") { token }
	}`

	var throttled bool
	for i := 0; i < 25; i++ {
		resp := exec(t, h, nil, query, nil)
		require.NotEmpty(t, resp.Errors)
		if strings.Contains(resp.Errors[0].Message, "too many login attempts") {
			throttled = true
			break
		}
	}
	assert.True(t, throttled, "login mutation should share the attempt limiter")
}

func TestAccountAndTransactionMutations(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := registerUser(t, h, "dave@example.com")
	id := &common.Identity{UserID: userID, Email: "dave@example.com", Roles: []string{models.RoleUser}}

	resp := exec(t, h, id, `mutation($userId: ID!) {
		createFinanceAccount(accountName: "Everyday", accountType: "Checking", userId: $userId) { id balance }
	}`, map[string]interface{}{"userId": userID})
	require.Empty(t, resp.Errors, "%v", resp.Errors)

	account := resp.Data["createFinanceAccount"].(map[string]interface{})
	accountID := account["id"].(string)
	assert.Equal(t, "0", account["balance"])

	resp = exec(t, h, id, `mutation($accountId: ID!) {
		income: createTransaction(amount: "100", date: "2026-01-15T00:00:00Z", financeAccountId: $accountId) { id }
		expense: createTransaction(amount: "30", date: "2026-01-16T00:00:00Z", isExpense: true, financeAccountId: $accountId) { id }
	}`, map[string]interface{}{"accountId": accountID})
	require.Empty(t, resp.Errors, "%v", resp.Errors)

	resp = exec(t, h, id, `query($id: ID!) {
		financeAccount(id: $id) { balance transactions { amount isExpense } }
	}`, map[string]interface{}{"id": accountID})
	require.Empty(t, resp.Errors, "%v", resp.Errors)

	got := resp.Data["financeAccount"].(map[string]interface{})
	assert.Equal(t, "70", got["balance"])
	assert.Len(t, got["transactions"], 2)
}

func TestUsersQueryRequiresAdmin(t *testing.T) {
	h, svc := newTestHandler(t)
	userID := registerUser(t, h, "dave@example.com")

	member := &common.Identity{UserID: userID, Roles: []string{models.RoleUser}}
	resp := exec(t, h, member, `{ users { id email } }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "insufficient role")

	admin, err := svc.GetUser(context.Background(), userID)
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(context.Background(), admin.ID, models.RoleAdmin))

	resp = exec(t, h, &common.Identity{UserID: userID, Roles: []string{models.RoleAdmin}}, `{ users { id email roles } }`, nil)
	require.Empty(t, resp.Errors, "%v", resp.Errors)
	assert.Len(t, resp.Data["users"], 2) // bootstrapped admin + registered user
}

func TestDeleteMutationsReportNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := registerUser(t, h, "dave@example.com")
	id := &common.Identity{UserID: userID, Roles: []string{models.RoleUser}}

	resp := exec(t, h, id, `mutation { deleteFinanceAccount(id: "missing") }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "not found")
}
