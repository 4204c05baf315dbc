package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/bobmcallan/moneta/internal/models"
)

// RoleStore persists roles and the user/role assignment table.
type RoleStore struct {
	db *gorm.DB
}

func (s *RoleStore) Get(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &role, nil
}

func (s *RoleStore) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &role, nil
}

func (s *RoleStore) Create(ctx context.Context, role *models.Role) error {
	return wrapErr(s.db.WithContext(ctx).Create(role).Error)
}

func (s *RoleStore) Save(ctx context.Context, role *models.Role) error {
	return wrapErr(s.db.WithContext(ctx).Save(role).Error)
}

func (s *RoleStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Role{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RoleStore) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.WithContext(ctx).Order("name").Find(&roles).Error; err != nil {
		return nil, wrapErr(err)
	}
	return roles, nil
}

// Assign writes the user/role association. Assigning the same role twice
// is a no-op rather than an error.
func (s *RoleStore) Assign(ctx context.Context, userID, roleID string) error {
	user := models.User{ID: userID}
	role := models.Role{ID: roleID}
	err := s.db.WithContext(ctx).Model(&user).Association("Roles").Append(&role)
	return wrapErr(err)
}

func (s *RoleStore) ListForUser(ctx context.Context, userID string) ([]models.Role, error) {
	var roles []models.Role
	user := models.User{ID: userID}
	if err := s.db.WithContext(ctx).Model(&user).Association("Roles").Find(&roles); err != nil {
		return nil, wrapErr(err)
	}
	return roles, nil
}
