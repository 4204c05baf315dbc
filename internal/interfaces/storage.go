// Package interfaces defines service and storage contracts for Moneta
package interfaces

import (
	"context"

	"github.com/bobmcallan/moneta/internal/models"
)

// Stores groups the per-entity stores sharing one database handle.
// Inside StorageManager.WithTx the same accessors are backed by the
// enclosing database transaction.
type Stores interface {
	Users() UserStore
	Roles() RoleStore
	Accounts() AccountStore
	Transactions() TransactionStore
	Budgets() BudgetStore
	Goals() GoalStore
	Investments() InvestmentStore
}

// StorageManager owns the database connection and the entity stores.
type StorageManager interface {
	Stores

	// WithTx runs fn inside a single database transaction. The Stores
	// passed to fn are scoped to that transaction; returning an error
	// rolls everything back.
	WithTx(ctx context.Context, fn func(s Stores) error) error

	Close() error
}

// UserStore manages user account rows.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.User, error)
}

// RoleStore manages role rows and user/role assignments.
type RoleStore interface {
	Get(ctx context.Context, id string) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Save(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Role, error)

	Assign(ctx context.Context, userID, roleID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Role, error)
}

// AccountStore manages finance account rows.
type AccountStore interface {
	Get(ctx context.Context, id string) (*models.FinanceAccount, error)
	GetWithTransactions(ctx context.Context, id string) (*models.FinanceAccount, error)
	Create(ctx context.Context, account *models.FinanceAccount) error
	Save(ctx context.Context, account *models.FinanceAccount) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.FinanceAccount, error)
	ListByUser(ctx context.Context, userID string) ([]models.FinanceAccount, error)
}

// TransactionStore manages transaction rows.
type TransactionStore interface {
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Create(ctx context.Context, tx *models.Transaction) error
	Save(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// BudgetStore manages budget rows.
type BudgetStore interface {
	Get(ctx context.Context, id string) (*models.Budget, error)
	Create(ctx context.Context, budget *models.Budget) error
	Save(ctx context.Context, budget *models.Budget) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Budget, error)
	ListByUser(ctx context.Context, userID string) ([]models.Budget, error)
}

// GoalStore manages goal rows.
type GoalStore interface {
	Get(ctx context.Context, id string) (*models.Goal, error)
	Create(ctx context.Context, goal *models.Goal) error
	Save(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]models.Goal, error)
}

// InvestmentStore manages investment rows.
type InvestmentStore interface {
	Get(ctx context.Context, id string) (*models.Investment, error)
	Create(ctx context.Context, inv *models.Investment) error
	Save(ctx context.Context, inv *models.Investment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Investment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Investment, error)
}
