package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
	"github.com/bobmcallan/moneta/internal/storage"
)

// fakeMailer records outbound mail instead of delivering it.
type fakeMailer struct {
	sent []string // recipient addresses in send order
	body string   // last body
	fail error
}

func (m *fakeMailer) Send(_ context.Context, to, _ string, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, to)
	m.body = body
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeMailer) {
	svc, _, mailer := newTestServiceWithStorage(t)
	return svc, mailer
}

func newTestServiceWithStorage(t *testing.T) (*Service, *storage.Manager, *fakeMailer) {
	t.Helper()

	logger := common.NewSilentLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	manager, err := storage.NewManager(logger, common.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	config := common.NewDefaultConfig()
	config.Bootstrap.AdminPassword = "admin-secret"

	mailer := &fakeMailer{}
	svc := NewService(manager, mailer, config, logger)
	require.NoError(t, svc.EnsureDefaults(context.Background()))
	return svc, manager, mailer
}

func TestRegisterAndLogin(t *testing.T) {
	svc, mailer := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)
	assert.False(t, user.EmailConfirmed)
	assert.NotEmpty(t, user.ConfirmToken)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "bob@example.com", mailer.sent[0])
	assert.Contains(t, mailer.body, user.ConfirmToken)

	token, loggedIn, err := svc.Login(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	identity, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "bob@example.com", identity.Email)
	assert.True(t, identity.HasRole(models.RoleUser))
	assert.False(t, identity.HasRole(models.RoleAdmin))
}

func TestRegisterDuplicateEmailSendsNoMail(t *testing.T) {
	svc, mailer := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	_, err = svc.Register(ctx, "bob@example.com", "different")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Len(t, mailer.sent, 1, "duplicate registration must not dispatch mail")
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "hunter22")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Register(ctx, "bob@example.com", "short")
	assert.ErrorIs(t, err, ErrInvalid)
}

// racingUserStore simulates a concurrent registration: the duplicate
// check misses but the unique index rejects the insert.
type racingUserStore struct {
	interfaces.UserStore
}

func (racingUserStore) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (racingUserStore) Create(context.Context, *models.User) error {
	return storage.ErrConflict
}

type racingStorage struct {
	interfaces.StorageManager
}

func (s racingStorage) Users() interfaces.UserStore {
	return racingUserStore{s.StorageManager.Users()}
}

func (s racingStorage) WithTx(_ context.Context, fn func(interfaces.Stores) error) error {
	return fn(s)
}

func TestRegisterConcurrentDuplicateMapsToInvalid(t *testing.T) {
	_, manager, mailer := newTestServiceWithStorage(t)

	config := common.NewDefaultConfig()
	svc := NewService(racingStorage{manager}, mailer, config, common.NewSilentLogger())

	_, err := svc.Register(context.Background(), "bob@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.NotErrorIs(t, err, storage.ErrConflict)
	assert.Empty(t, mailer.sent, "lost race must not dispatch mail")
}

func TestRegisterMailFailure(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.fail = errors.New("smtp relay unreachable")

	_, err := svc.Register(context.Background(), "bob@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrMailDelivery)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "bob@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Nil(t, user)

	token, user, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestLoginThrottledPerAccount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	var throttled bool
	for i := 0; i < 25; i++ {
		_, _, err := svc.Login(ctx, "bob@example.com", "wrong-password")
		if errors.Is(err, ErrThrottled) {
			throttled = true
			break
		}
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.True(t, throttled, "repeated attempts should hit the limiter")

	// Other accounts keep their own budget.
	_, _, err = svc.Login(ctx, "admin@moneta.local", "admin-secret")
	require.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	err = svc.VerifyEmail(ctx, user.ID, "wrong-token")
	assert.ErrorIs(t, err, ErrInvalid)

	err = svc.VerifyEmail(ctx, "missing-user", user.ConfirmToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, svc.VerifyEmail(ctx, user.ID, user.ConfirmToken))

	stored, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailConfirmed)
	assert.Empty(t, stored.ConfirmToken)

	// Re-verifying a confirmed account is a no-op.
	require.NoError(t, svc.VerifyEmail(ctx, user.ID, "anything"))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, "bob@example.com", "new-password"))

	_, _, err = svc.Login(ctx, "bob@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, _, err := svc.Login(ctx, "bob@example.com", "new-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	err = svc.ChangePassword(ctx, "nobody@example.com", "new-password")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token+"x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAssignRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	err = svc.AssignRole(ctx, "missing-user", models.RoleAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")

	err = svc.AssignRole(ctx, user.ID, "Auditor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role not found")

	require.NoError(t, svc.AssignRole(ctx, user.ID, models.RoleAdmin))

	token, _, err := svc.Login(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)
	identity, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, identity.HasRole(models.RoleAdmin))
}

func TestDeleteUserCascadesToOwnedRows(t *testing.T) {
	svc, manager, _ := newTestServiceWithStorage(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)

	account := &models.FinanceAccount{
		ID:          "acct-1",
		AccountName: "Everyday",
		AccountType: "Checking",
		UserID:      user.ID,
	}
	require.NoError(t, manager.Accounts().Create(ctx, account))

	tx := &models.Transaction{
		ID:               "tx-1",
		Description:      "Groceries",
		Amount:           decimal.NewFromInt(30),
		Date:             time.Now(),
		Category:         "Food",
		IsExpense:        true,
		FinanceAccountID: account.ID,
	}
	require.NoError(t, manager.Transactions().Create(ctx, tx))

	goal := &models.Goal{
		ID:           "goal-1",
		GoalTitle:    "Holiday",
		TargetAmount: decimal.NewFromInt(1000),
		TargetDate:   time.Now().AddDate(1, 0, 0),
		UserID:       user.ID,
	}
	require.NoError(t, manager.Goals().Create(ctx, goal))

	require.NoError(t, svc.DeleteUser(ctx, user.ID))

	_, err = manager.Accounts().Get(ctx, account.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "account should be deleted with its user")
	_, err = manager.Transactions().Get(ctx, tx.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "transaction should be deleted with its account")
	_, err = manager.Goals().Get(ctx, goal.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "goal should be deleted with its user")
}

func TestRoleCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "Auditor")
	require.NoError(t, err)
	assert.NotEmpty(t, role.ID)

	_, err = svc.CreateRole(ctx, "Auditor")
	assert.ErrorIs(t, err, storage.ErrConflict)

	updated, err := svc.UpdateRole(ctx, role.ID, "Reviewer")
	require.NoError(t, err)
	assert.Equal(t, "Reviewer", updated.Name)

	require.NoError(t, svc.DeleteRole(ctx, role.ID))
	assert.ErrorIs(t, svc.DeleteRole(ctx, role.ID), storage.ErrNotFound)
}

func TestEnsureDefaultsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// newTestService already ran EnsureDefaults once; run it again.
	require.NoError(t, svc.EnsureDefaults(ctx))
	require.NoError(t, svc.EnsureDefaults(ctx))

	roles, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@moneta.local", users[0].Email)
	assert.Contains(t, users[0].Roles, models.RoleAdmin)

	token, _, err := svc.Login(ctx, "admin@moneta.local", "admin-secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
