package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/bobmcallan/moneta/internal/models"
)

// GoalStore persists goals.
type GoalStore struct {
	db *gorm.DB
}

func (s *GoalStore) Get(ctx context.Context, id string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).First(&goal, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &goal, nil
}

func (s *GoalStore) Create(ctx context.Context, goal *models.Goal) error {
	return wrapErr(s.db.WithContext(ctx).Create(goal).Error)
}

func (s *GoalStore) Save(ctx context.Context, goal *models.Goal) error {
	return wrapErr(s.db.WithContext(ctx).Save(goal).Error)
}

func (s *GoalStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Goal{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GoalStore) List(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.WithContext(ctx).Order("target_date").Find(&goals).Error; err != nil {
		return nil, wrapErr(err)
	}
	return goals, nil
}

func (s *GoalStore) ListByUser(ctx context.Context, userID string) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("target_date").Find(&goals).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return goals, nil
}
