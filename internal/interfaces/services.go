package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/models"
)

// Mailer sends outbound mail. Delivery is synchronous; a failure
// propagates to the caller unretried.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// FinanceService is the single source of truth for entity operations.
// Both the REST handlers and the GraphQL resolvers are thin adapters
// over this interface.
type FinanceService interface {
	// ComputeBalance returns the signed sum of the transactions:
	// expenses negative, income positive, zero for an empty set.
	ComputeBalance(txs []models.Transaction) decimal.Decimal

	ListAccounts(ctx context.Context) ([]models.FinanceAccount, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]models.FinanceAccount, error)
	GetAccount(ctx context.Context, id string) (*models.FinanceAccount, error)
	CreateAccount(ctx context.Context, account *models.FinanceAccount) error
	UpdateAccount(ctx context.Context, account *models.FinanceAccount) error
	DeleteAccount(ctx context.Context, id string) error

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	ListBudgets(ctx context.Context) ([]models.Budget, error)
	ListBudgetsByUser(ctx context.Context, userID string) ([]models.Budget, error)
	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	CreateBudget(ctx context.Context, budget *models.Budget) error
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, id string) error

	ListGoals(ctx context.Context) ([]models.Goal, error)
	ListGoalsByUser(ctx context.Context, userID string) ([]models.Goal, error)
	GetGoal(ctx context.Context, id string) (*models.Goal, error)
	CreateGoal(ctx context.Context, goal *models.Goal) error
	UpdateGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, id string) error

	ListInvestments(ctx context.Context) ([]models.Investment, error)
	ListInvestmentsByUser(ctx context.Context, userID string) ([]models.Investment, error)
	GetInvestment(ctx context.Context, id string) (*models.Investment, error)
	CreateInvestment(ctx context.Context, inv *models.Investment) error
	UpdateInvestment(ctx context.Context, inv *models.Investment) error
	DeleteInvestment(ctx context.Context, id string) error
}

// UserSummary is a user row with resolved role names, returned by listings.
type UserSummary struct {
	ID             string   `json:"id"`
	UserName       string   `json:"userName"`
	Email          string   `json:"email"`
	EmailConfirmed bool     `json:"emailConfirmed"`
	Roles          []string `json:"roles"`
}

// IdentityService manages registration, login, tokens, and roles.
type IdentityService interface {
	// Register creates an unconfirmed account with the default User role,
	// then dispatches a verification mail. A mail failure propagates.
	Register(ctx context.Context, email, password string) (*models.User, error)
	VerifyEmail(ctx context.Context, userID, token string) error
	// Login validates credentials and returns a signed bearer token
	// carrying user id, email, token id, and role claims.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	ChangePassword(ctx context.Context, email, newPassword string) error
	ValidateToken(ctx context.Context, token string) (*common.Identity, error)

	ListUsers(ctx context.Context) ([]UserSummary, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListRoles(ctx context.Context) ([]models.Role, error)
	GetRole(ctx context.Context, id string) (*models.Role, error)
	CreateRole(ctx context.Context, name string) (*models.Role, error)
	UpdateRole(ctx context.Context, id, name string) (*models.Role, error)
	DeleteRole(ctx context.Context, id string) error
	AssignRole(ctx context.Context, userID, roleName string) error

	// EnsureDefaults idempotently creates the Admin/User roles and the
	// configured admin account. Invoked once at process start.
	EnsureDefaults(ctx context.Context) error
}
