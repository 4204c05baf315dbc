package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bobmcallan/moneta/internal/models"
	"github.com/bobmcallan/moneta/internal/storage"
)

// --- Budgets ---

func validateBudget(budget *models.Budget) error {
	if strings.TrimSpace(budget.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalid)
	}
	if budget.Limit.IsNegative() {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalid)
	}
	return nil
}

func (s *Service) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	return s.storage.Budgets().List(ctx)
}

func (s *Service) ListBudgetsByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	return s.storage.Budgets().ListByUser(ctx, userID)
}

func (s *Service) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	return s.storage.Budgets().Get(ctx, id)
}

func (s *Service) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if err := validateBudget(budget); err != nil {
		return err
	}
	if budget.UserID != nil {
		if _, err := s.storage.Users().Get(ctx, *budget.UserID); err != nil {
			return fmt.Errorf("user %s: %w", *budget.UserID, err)
		}
	}
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	return s.storage.Budgets().Create(ctx, budget)
}

func (s *Service) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	if err := validateBudget(budget); err != nil {
		return err
	}
	existing, err := s.storage.Budgets().Get(ctx, budget.ID)
	if err != nil {
		return fmt.Errorf("budget %s: %w", budget.ID, err)
	}
	existing.Category = budget.Category
	existing.Limit = budget.Limit
	if err := s.storage.Budgets().Save(ctx, existing); err != nil {
		if _, getErr := s.storage.Budgets().Get(ctx, budget.ID); errors.Is(getErr, storage.ErrNotFound) {
			return fmt.Errorf("budget %s: %w", budget.ID, storage.ErrNotFound)
		}
		return err
	}
	*budget = *existing
	return nil
}

func (s *Service) DeleteBudget(ctx context.Context, id string) error {
	if _, err := s.storage.Budgets().Get(ctx, id); err != nil {
		return fmt.Errorf("budget %s: %w", id, err)
	}
	return s.storage.Budgets().Delete(ctx, id)
}

// --- Goals ---

func validateGoal(goal *models.Goal) error {
	if strings.TrimSpace(goal.GoalTitle) == "" {
		return fmt.Errorf("%w: goalTitle is required", ErrInvalid)
	}
	if goal.TargetAmount.IsNegative() || goal.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalid)
	}
	return nil
}

func (s *Service) ListGoals(ctx context.Context) ([]models.Goal, error) {
	return s.storage.Goals().List(ctx)
}

func (s *Service) ListGoalsByUser(ctx context.Context, userID string) ([]models.Goal, error) {
	return s.storage.Goals().ListByUser(ctx, userID)
}

func (s *Service) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	return s.storage.Goals().Get(ctx, id)
}

func (s *Service) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if err := validateGoal(goal); err != nil {
		return err
	}
	if _, err := s.storage.Users().Get(ctx, goal.UserID); err != nil {
		return fmt.Errorf("user %s: %w", goal.UserID, err)
	}
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	return s.storage.Goals().Create(ctx, goal)
}

func (s *Service) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	if err := validateGoal(goal); err != nil {
		return err
	}
	existing, err := s.storage.Goals().Get(ctx, goal.ID)
	if err != nil {
		return fmt.Errorf("goal %s: %w", goal.ID, err)
	}
	existing.GoalTitle = goal.GoalTitle
	existing.TargetAmount = goal.TargetAmount
	existing.CurrentAmount = goal.CurrentAmount
	existing.TargetDate = goal.TargetDate
	if err := s.storage.Goals().Save(ctx, existing); err != nil {
		if _, getErr := s.storage.Goals().Get(ctx, goal.ID); errors.Is(getErr, storage.ErrNotFound) {
			return fmt.Errorf("goal %s: %w", goal.ID, storage.ErrNotFound)
		}
		return err
	}
	*goal = *existing
	return nil
}

func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	if _, err := s.storage.Goals().Get(ctx, id); err != nil {
		return fmt.Errorf("goal %s: %w", id, err)
	}
	return s.storage.Goals().Delete(ctx, id)
}

// --- Investments ---

func validateInvestment(inv *models.Investment) error {
	if strings.TrimSpace(inv.AssetName) == "" {
		return fmt.Errorf("%w: assetName is required", ErrInvalid)
	}
	if inv.AmountInvested.IsNegative() || inv.CurrentValue.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalid)
	}
	return nil
}

func (s *Service) ListInvestments(ctx context.Context) ([]models.Investment, error) {
	return s.storage.Investments().List(ctx)
}

func (s *Service) ListInvestmentsByUser(ctx context.Context, userID string) ([]models.Investment, error) {
	return s.storage.Investments().ListByUser(ctx, userID)
}

func (s *Service) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	return s.storage.Investments().Get(ctx, id)
}

func (s *Service) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	if err := validateInvestment(inv); err != nil {
		return err
	}
	if _, err := s.storage.Users().Get(ctx, inv.UserID); err != nil {
		return fmt.Errorf("user %s: %w", inv.UserID, err)
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	return s.storage.Investments().Create(ctx, inv)
}

func (s *Service) UpdateInvestment(ctx context.Context, inv *models.Investment) error {
	if err := validateInvestment(inv); err != nil {
		return err
	}
	existing, err := s.storage.Investments().Get(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("investment %s: %w", inv.ID, err)
	}
	existing.AssetName = inv.AssetName
	existing.AmountInvested = inv.AmountInvested
	existing.CurrentValue = inv.CurrentValue
	existing.PurchaseDate = inv.PurchaseDate
	if err := s.storage.Investments().Save(ctx, existing); err != nil {
		if _, getErr := s.storage.Investments().Get(ctx, inv.ID); errors.Is(getErr, storage.ErrNotFound) {
			return fmt.Errorf("investment %s: %w", inv.ID, storage.ErrNotFound)
		}
		return err
	}
	*inv = *existing
	return nil
}

func (s *Service) DeleteInvestment(ctx context.Context, id string) error {
	if _, err := s.storage.Investments().Get(ctx, id); err != nil {
		return fmt.Errorf("investment %s: %w", id, err)
	}
	return s.storage.Investments().Delete(ctx, id)
}
