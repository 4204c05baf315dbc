package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/bobmcallan/moneta/internal/models"
)

// AccountStore persists finance accounts.
type AccountStore struct {
	db *gorm.DB
}

func (s *AccountStore) Get(ctx context.Context, id string) (*models.FinanceAccount, error) {
	var account models.FinanceAccount
	if err := s.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &account, nil
}

// GetWithTransactions loads the account together with its transaction set,
// for balance recomputation and detail views.
func (s *AccountStore) GetWithTransactions(ctx context.Context, id string) (*models.FinanceAccount, error) {
	var account models.FinanceAccount
	err := s.db.WithContext(ctx).Preload("Transactions").First(&account, "id = ?", id).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return &account, nil
}

func (s *AccountStore) Create(ctx context.Context, account *models.FinanceAccount) error {
	return wrapErr(s.db.WithContext(ctx).Create(account).Error)
}

func (s *AccountStore) Save(ctx context.Context, account *models.FinanceAccount) error {
	return wrapErr(s.db.WithContext(ctx).Omit("Transactions").Save(account).Error)
}

func (s *AccountStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.FinanceAccount{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AccountStore) List(ctx context.Context) ([]models.FinanceAccount, error) {
	var accounts []models.FinanceAccount
	if err := s.db.WithContext(ctx).Order("account_name").Find(&accounts).Error; err != nil {
		return nil, wrapErr(err)
	}
	return accounts, nil
}

func (s *AccountStore) ListByUser(ctx context.Context, userID string) ([]models.FinanceAccount, error) {
	var accounts []models.FinanceAccount
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("account_name").Find(&accounts).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return accounts, nil
}
