package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
	"github.com/bobmcallan/moneta/internal/storage"
)

func validateTransaction(tx *models.Transaction) error {
	if tx.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}
	if tx.FinanceAccountID == "" {
		return fmt.Errorf("%w: financeAccountId is required", ErrInvalid)
	}
	return nil
}

func (s *Service) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.storage.Transactions().List(ctx)
}

// ListTransactionsByAccount returns the account's transactions, or
// ErrNotFound when the scope yields nothing.
func (s *Service) ListTransactionsByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	txs, err := s.storage.Transactions().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("no transactions found for account %s: %w", accountID, storage.ErrNotFound)
	}
	return txs, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	return s.storage.Transactions().Get(ctx, id)
}

// CreateTransaction inserts the transaction and persists the recomputed
// balance of the owning account in the same unit of work.
func (s *Service) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	if _, err := s.storage.Accounts().Get(ctx, tx.FinanceAccountID); err != nil {
		return fmt.Errorf("account %s: %w", tx.FinanceAccountID, err)
	}

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	err := s.storage.WithTx(ctx, func(stores interfaces.Stores) error {
		if err := stores.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		return s.recomputeBalance(ctx, stores, tx.FinanceAccountID)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("transaction_id", tx.ID).Str("account_id", tx.FinanceAccountID).Msg("Transaction created")
	return nil
}

// UpdateTransaction overwrites the mutable fields of an existing
// transaction. The owning account cannot be changed.
func (s *Service) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}

	existing, err := s.storage.Transactions().Get(ctx, tx.ID)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	existing.Description = tx.Description
	existing.Amount = tx.Amount
	existing.Date = tx.Date
	existing.Category = tx.Category
	existing.IsExpense = tx.IsExpense

	err = s.storage.WithTx(ctx, func(stores interfaces.Stores) error {
		if err := stores.Transactions().Save(ctx, existing); err != nil {
			return err
		}
		return s.recomputeBalance(ctx, stores, existing.FinanceAccountID)
	})
	if err != nil {
		if _, getErr := s.storage.Transactions().Get(ctx, tx.ID); errors.Is(getErr, storage.ErrNotFound) {
			return fmt.Errorf("transaction %s: %w", tx.ID, storage.ErrNotFound)
		}
		return err
	}
	*tx = *existing
	return nil
}

// DeleteTransaction removes the transaction and persists the recomputed
// balance of the owning account in the same unit of work.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	existing, err := s.storage.Transactions().Get(ctx, id)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", id, err)
	}

	return s.storage.WithTx(ctx, func(stores interfaces.Stores) error {
		if err := stores.Transactions().Delete(ctx, id); err != nil {
			return err
		}
		return s.recomputeBalance(ctx, stores, existing.FinanceAccountID)
	})
}
