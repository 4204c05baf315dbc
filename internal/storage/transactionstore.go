package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/bobmcallan/moneta/internal/models"
)

// TransactionStore persists transactions.
type TransactionStore struct {
	db *gorm.DB
}

func (s *TransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &tx, nil
}

func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	return wrapErr(s.db.WithContext(ctx).Create(tx).Error)
}

func (s *TransactionStore) Save(ctx context.Context, tx *models.Transaction) error {
	return wrapErr(s.db.WithContext(ctx).Save(tx).Error)
}

func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TransactionStore) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.WithContext(ctx).Order("date desc").Find(&txs).Error; err != nil {
		return nil, wrapErr(err)
	}
	return txs, nil
}

func (s *TransactionStore) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithContext(ctx).Where("finance_account_id = ?", accountID).Order("date desc").Find(&txs).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return txs, nil
}
