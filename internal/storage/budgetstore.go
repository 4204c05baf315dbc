package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/bobmcallan/moneta/internal/models"
)

// BudgetStore persists budgets.
type BudgetStore struct {
	db *gorm.DB
}

func (s *BudgetStore) Get(ctx context.Context, id string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).First(&budget, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &budget, nil
}

func (s *BudgetStore) Create(ctx context.Context, budget *models.Budget) error {
	return wrapErr(s.db.WithContext(ctx).Create(budget).Error)
}

func (s *BudgetStore) Save(ctx context.Context, budget *models.Budget) error {
	return wrapErr(s.db.WithContext(ctx).Save(budget).Error)
}

func (s *BudgetStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Budget{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BudgetStore) List(ctx context.Context) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.WithContext(ctx).Order("category").Find(&budgets).Error; err != nil {
		return nil, wrapErr(err)
	}
	return budgets, nil
}

func (s *BudgetStore) ListByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("category").Find(&budgets).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return budgets, nil
}
