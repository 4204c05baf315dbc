package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
	"github.com/bobmcallan/moneta/internal/storage"
)

// --- User administration ---

// ListUsers returns every user with their resolved role names.
func (s *Service) ListUsers(ctx context.Context) ([]interfaces.UserSummary, error) {
	users, err := s.storage.Users().List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]interfaces.UserSummary, 0, len(users))
	for _, u := range users {
		roles, err := s.storage.Roles().ListForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, interfaces.UserSummary{
			ID:             u.ID,
			UserName:       u.UserName,
			Email:          u.Email,
			EmailConfirmed: u.EmailConfirmed,
			Roles:          roleNames(roles),
		})
	}
	return summaries, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.storage.Users().Get(ctx, id)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.storage.Users().Get(ctx, id); err != nil {
		return fmt.Errorf("user %s: %w", id, err)
	}
	return s.storage.Users().Delete(ctx, id)
}

// --- Role administration ---

func (s *Service) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.storage.Roles().List(ctx)
}

func (s *Service) GetRole(ctx context.Context, id string) (*models.Role, error) {
	return s.storage.Roles().Get(ctx, id)
}

func (s *Service) CreateRole(ctx context.Context, name string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalid)
	}
	role := &models.Role{ID: uuid.New().String(), Name: name}
	if err := s.storage.Roles().Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) UpdateRole(ctx context.Context, id, name string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalid)
	}
	role, err := s.storage.Roles().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", id, err)
	}
	role.Name = name
	if err := s.storage.Roles().Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) DeleteRole(ctx context.Context, id string) error {
	if _, err := s.storage.Roles().Get(ctx, id); err != nil {
		return fmt.Errorf("role %s: %w", id, err)
	}
	return s.storage.Roles().Delete(ctx, id)
}

// AssignRole grants the named role to the user, reporting which lookup
// failed when either side is missing.
func (s *Service) AssignRole(ctx context.Context, userID, roleName string) error {
	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	role, err := s.storage.Roles().GetByName(ctx, roleName)
	if err != nil {
		return fmt.Errorf("role not found: %w", err)
	}
	if err := s.storage.Roles().Assign(ctx, user.ID, role.ID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", role.Name).Msg("Role assigned")
	return nil
}

// --- Startup bootstrap ---

// EnsureDefaults idempotently creates the Admin and User roles and, when
// configured, a confirmed admin account. Safe to run on every start.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		if _, err := s.storage.Roles().GetByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		role := &models.Role{ID: uuid.New().String(), Name: name}
		if err := s.storage.Roles().Create(ctx, role); err != nil && !errors.Is(err, storage.ErrConflict) {
			return err
		}
		s.logger.Info().Str("role", name).Msg("Default role created")
	}

	if s.boot.AdminEmail == "" || s.boot.AdminPassword == "" {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(s.boot.AdminEmail))
	if _, err := s.storage.Users().GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := hashPassword(s.boot.AdminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:             uuid.New().String(),
		UserName:       email,
		Email:          email,
		PasswordHash:   hash,
		EmailConfirmed: true,
	}

	err = s.storage.WithTx(ctx, func(stores interfaces.Stores) error {
		if err := stores.Users().Create(ctx, admin); err != nil {
			return err
		}
		role, err := stores.Roles().GetByName(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		return stores.Roles().Assign(ctx, admin.ID, role.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Msg("Admin account created")
	return nil
}
