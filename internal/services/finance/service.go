// Package finance implements the entity operations shared by the REST
// and GraphQL surfaces: finance accounts, transactions, budgets, goals,
// and investments, plus the derived account balance.
package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
	"github.com/bobmcallan/moneta/internal/storage"
)

// ErrInvalid marks validation failures; handlers map it to 400.
var ErrInvalid = errors.New("invalid input")

// Compile-time interface check
var _ interfaces.FinanceService = (*Service)(nil)

// Service implements FinanceService over the storage manager.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new finance service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// ComputeBalance returns the signed sum of the transactions: expenses
// subtract, income adds, zero for an empty set. Pure and total.
func (s *Service) ComputeBalance(txs []models.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		if tx.IsExpense {
			balance = balance.Sub(tx.Amount)
		} else {
			balance = balance.Add(tx.Amount)
		}
	}
	return balance
}

// recomputeBalance reloads the account's transactions and persists the
// freshly derived balance. Must run inside the same unit of work as the
// transaction change that triggered it.
func (s *Service) recomputeBalance(ctx context.Context, stores interfaces.Stores, accountID string) error {
	account, err := stores.Accounts().GetWithTransactions(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load account %s for balance recompute: %w", accountID, err)
	}
	account.Balance = s.ComputeBalance(account.Transactions)
	if err := stores.Accounts().Save(ctx, account); err != nil {
		return fmt.Errorf("failed to persist balance for account %s: %w", accountID, err)
	}
	return nil
}

// --- Finance accounts ---

func validateAccount(account *models.FinanceAccount) error {
	if strings.TrimSpace(account.AccountName) == "" {
		return fmt.Errorf("%w: accountName is required", ErrInvalid)
	}
	if strings.TrimSpace(account.AccountType) == "" {
		return fmt.Errorf("%w: accountType is required", ErrInvalid)
	}
	return nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]models.FinanceAccount, error) {
	return s.storage.Accounts().List(ctx)
}

// ListAccountsByUser returns the user's accounts, or ErrNotFound when
// the scope yields nothing.
func (s *Service) ListAccountsByUser(ctx context.Context, userID string) ([]models.FinanceAccount, error) {
	accounts, err := s.storage.Accounts().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts found for user %s: %w", userID, storage.ErrNotFound)
	}
	return accounts, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (*models.FinanceAccount, error) {
	return s.storage.Accounts().GetWithTransactions(ctx, id)
}

// CreateAccount verifies the owning user exists, then inserts the
// account with a zero derived balance.
func (s *Service) CreateAccount(ctx context.Context, account *models.FinanceAccount) error {
	if err := validateAccount(account); err != nil {
		return err
	}
	if _, err := s.storage.Users().Get(ctx, account.UserID); err != nil {
		return fmt.Errorf("user %s: %w", account.UserID, err)
	}

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.Balance = decimal.Zero

	if err := s.storage.Accounts().Create(ctx, account); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", account.ID).Str("user_id", account.UserID).Msg("Finance account created")
	return nil
}

// UpdateAccount overwrites the mutable fields of an existing account.
// The derived balance and the owner are not client-writable.
func (s *Service) UpdateAccount(ctx context.Context, account *models.FinanceAccount) error {
	if err := validateAccount(account); err != nil {
		return err
	}

	existing, err := s.storage.Accounts().Get(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("account %s: %w", account.ID, err)
	}

	existing.AccountName = account.AccountName
	existing.AccountType = account.AccountType

	if err := s.storage.Accounts().Save(ctx, existing); err != nil {
		// Concurrent delete surfaces as a save failure; re-check existence
		// and downgrade, otherwise propagate.
		if _, getErr := s.storage.Accounts().Get(ctx, account.ID); errors.Is(getErr, storage.ErrNotFound) {
			return fmt.Errorf("account %s: %w", account.ID, storage.ErrNotFound)
		}
		return err
	}
	*account = *existing
	return nil
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.storage.Accounts().Get(ctx, id); err != nil {
		return fmt.Errorf("account %s: %w", id, err)
	}
	return s.storage.Accounts().Delete(ctx, id)
}
