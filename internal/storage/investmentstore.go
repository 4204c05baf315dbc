package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/bobmcallan/moneta/internal/models"
)

// InvestmentStore persists investments.
type InvestmentStore struct {
	db *gorm.DB
}

func (s *InvestmentStore) Get(ctx context.Context, id string) (*models.Investment, error) {
	var inv models.Investment
	if err := s.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &inv, nil
}

func (s *InvestmentStore) Create(ctx context.Context, inv *models.Investment) error {
	return wrapErr(s.db.WithContext(ctx).Create(inv).Error)
}

func (s *InvestmentStore) Save(ctx context.Context, inv *models.Investment) error {
	return wrapErr(s.db.WithContext(ctx).Save(inv).Error)
}

func (s *InvestmentStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Investment{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *InvestmentStore) List(ctx context.Context) ([]models.Investment, error) {
	var invs []models.Investment
	if err := s.db.WithContext(ctx).Order("purchase_date").Find(&invs).Error; err != nil {
		return nil, wrapErr(err)
	}
	return invs, nil
}

func (s *InvestmentStore) ListByUser(ctx context.Context, userID string) ([]models.Investment, error) {
	var invs []models.Investment
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("purchase_date").Find(&invs).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return invs, nil
}
