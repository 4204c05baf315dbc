package finance

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/models"
	"github.com/bobmcallan/moneta/internal/storage"
)

// newTestService creates a finance service over a fresh in-memory
// database, plus a user to own the fixtures.
func newTestService(t *testing.T) (*Service, *storage.Manager, *models.User) {
	t.Helper()

	logger := common.NewSilentLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	manager, err := storage.NewManager(logger, common.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	user := &models.User{
		ID:       uuid.New().String(),
		UserName: "alice",
		Email:    "alice@example.com",
	}
	require.NoError(t, manager.Users().Create(context.Background(), user))

	return NewService(manager, logger), manager, user
}

func newTestAccount(t *testing.T, svc *Service, userID string) *models.FinanceAccount {
	t.Helper()
	account := &models.FinanceAccount{
		AccountName: "Everyday",
		AccountType: "Checking",
		UserID:      userID,
	}
	require.NoError(t, svc.CreateAccount(context.Background(), account))
	return account
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeBalance(t *testing.T) {
	svc, _, _ := newTestService(t)

	assert.True(t, svc.ComputeBalance(nil).IsZero())

	txs := []models.Transaction{
		{Amount: dec("100"), IsExpense: false},
		{Amount: dec("30"), IsExpense: true},
	}
	assert.True(t, svc.ComputeBalance(txs).Equal(dec("70")))

	txs = append(txs, models.Transaction{Amount: dec("20"), IsExpense: true})
	assert.True(t, svc.ComputeBalance(txs).Equal(dec("50")))
}

func TestCreateAccount(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	account := &models.FinanceAccount{
		AccountName: "Everyday",
		AccountType: "Checking",
		Balance:     dec("9999"), // client-supplied balance is ignored
		UserID:      user.ID,
	}
	require.NoError(t, svc.CreateAccount(ctx, account))
	assert.NotEmpty(t, account.ID)

	stored, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero())
}

func TestCreateAccountUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	account := &models.FinanceAccount{
		AccountName: "Orphan",
		AccountType: "Checking",
		UserID:      uuid.New().String(),
	}
	err := svc.CreateAccount(context.Background(), account)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateAccountValidation(t *testing.T) {
	svc, _, user := newTestService(t)

	err := svc.CreateAccount(context.Background(), &models.FinanceAccount{
		AccountType: "Checking",
		UserID:      user.ID,
	})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestListAccountsByUser(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	_, err := svc.ListAccountsByUser(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	newTestAccount(t, svc, user.ID)

	accounts, err := svc.ListAccountsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestUpdateAccountKeepsBalance(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	account := newTestAccount(t, svc, user.ID)
	require.NoError(t, svc.CreateTransaction(ctx, &models.Transaction{
		Amount:           dec("100"),
		Date:             time.Now(),
		FinanceAccountID: account.ID,
	}))

	update := &models.FinanceAccount{
		ID:          account.ID,
		AccountName: "Renamed",
		AccountType: "Savings",
	}
	require.NoError(t, svc.UpdateAccount(ctx, update))

	stored, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.AccountName)
	assert.Equal(t, "Savings", stored.AccountType)
	assert.True(t, stored.Balance.Equal(dec("100")))
}

func TestUpdateAccountNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.UpdateAccount(context.Background(), &models.FinanceAccount{
		ID:          uuid.New().String(),
		AccountName: "Ghost",
		AccountType: "Checking",
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTransactionLifecycleRecomputesBalance(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()
	account := newTestAccount(t, svc, user.ID)

	income := &models.Transaction{
		Description:      "Salary",
		Amount:           dec("100"),
		Date:             time.Now(),
		Category:         "Income",
		FinanceAccountID: account.ID,
	}
	require.NoError(t, svc.CreateTransaction(ctx, income))

	expense := &models.Transaction{
		Description:      "Groceries",
		Amount:           dec("30"),
		Date:             time.Now(),
		Category:         "Food",
		IsExpense:        true,
		FinanceAccountID: account.ID,
	}
	require.NoError(t, svc.CreateTransaction(ctx, expense))

	stored, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("70")), "balance after income and expense: %s", stored.Balance)

	// Growing the expense shrinks the balance.
	expense.Amount = dec("50")
	require.NoError(t, svc.UpdateTransaction(ctx, expense))

	stored, err = svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("50")))

	// Deleting the expense restores the income-only balance.
	require.NoError(t, svc.DeleteTransaction(ctx, expense.ID))

	stored, err = svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("100")))
}

func TestCreateTransactionUnknownAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.CreateTransaction(context.Background(), &models.Transaction{
		Amount:           dec("10"),
		Date:             time.Now(),
		FinanceAccountID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateTransactionNegativeAmount(t *testing.T) {
	svc, _, user := newTestService(t)
	account := newTestAccount(t, svc, user.ID)

	err := svc.CreateTransaction(context.Background(), &models.Transaction{
		Amount:           dec("-5"),
		Date:             time.Now(),
		FinanceAccountID: account.ID,
	})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestListTransactionsByAccount(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()
	account := newTestAccount(t, svc, user.ID)

	_, err := svc.ListTransactionsByAccount(ctx, account.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, svc.CreateTransaction(ctx, &models.Transaction{
		Amount:           dec("10"),
		Date:             time.Now(),
		FinanceAccountID: account.ID,
	}))

	txs, err := svc.ListTransactionsByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestUpdateTransactionNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.UpdateTransaction(context.Background(), &models.Transaction{
		ID:     uuid.New().String(),
		Amount: dec("10"),
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBudgetLifecycle(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	budget := &models.Budget{Category: "Food", Limit: dec("400"), UserID: &user.ID}
	require.NoError(t, svc.CreateBudget(ctx, budget))
	assert.NotEmpty(t, budget.ID)

	budget.Limit = dec("450")
	require.NoError(t, svc.UpdateBudget(ctx, budget))

	budgets, err := svc.ListBudgetsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Limit.Equal(dec("450")))

	require.NoError(t, svc.DeleteBudget(ctx, budget.ID))
	assert.ErrorIs(t, svc.DeleteBudget(ctx, budget.ID), storage.ErrNotFound)
}

func TestGoalLifecycle(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	goal := &models.Goal{
		GoalTitle:     "House deposit",
		TargetAmount:  dec("50000"),
		CurrentAmount: dec("1000"),
		TargetDate:    time.Now().AddDate(2, 0, 0),
		UserID:        user.ID,
	}
	require.NoError(t, svc.CreateGoal(ctx, goal))

	goal.CurrentAmount = dec("2000")
	require.NoError(t, svc.UpdateGoal(ctx, goal))

	stored, err := svc.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentAmount.Equal(dec("2000")))

	err = svc.CreateGoal(ctx, &models.Goal{
		GoalTitle:    "Orphan",
		TargetAmount: dec("1"),
		UserID:       uuid.New().String(),
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInvestmentLifecycle(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	inv := &models.Investment{
		AssetName:      "Index fund",
		AmountInvested: dec("1000"),
		CurrentValue:   dec("1100"),
		PurchaseDate:   time.Now().AddDate(-1, 0, 0),
		UserID:         user.ID,
	}
	require.NoError(t, svc.CreateInvestment(ctx, inv))

	inv.CurrentValue = dec("1250")
	require.NoError(t, svc.UpdateInvestment(ctx, inv))

	list, err := svc.ListInvestmentsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].CurrentValue.Equal(dec("1250")))

	require.NoError(t, svc.DeleteInvestment(ctx, inv.ID))
	_, err = svc.GetInvestment(ctx, inv.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
