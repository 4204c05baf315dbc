package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/bobmcallan/moneta/internal/models"
)

// UserStore persists user accounts.
type UserStore struct {
	db *gorm.DB
}

func (s *UserStore) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return wrapErr(s.db.WithContext(ctx).Create(user).Error)
}

func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	return wrapErr(s.db.WithContext(ctx).Save(user).Error)
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, wrapErr(err)
	}
	return users, nil
}
