// Package storage implements GORM-backed persistence for Moneta.
package storage

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)

// Manager owns the database handle and hands out entity stores.
type Manager struct {
	db     *gorm.DB
	logger *common.Logger
}

// NewManager opens the configured database, runs migrations, and returns
// a ready Manager.
func NewManager(logger *common.Logger, cfg common.DatabaseConfig) (*Manager, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	m := &Manager{db: db, logger: logger}
	if err := m.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info().Str("driver", cfg.Driver).Msg("Storage initialized")
	return m, nil
}

// sqliteDSN turns on foreign key enforcement. The sqlite driver leaves
// the pragma off by default, which would break delete cascades.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// migrate creates or updates the schema for all entities.
func (m *Manager) migrate() error {
	return m.db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.FinanceAccount{},
		&models.Transaction{},
		&models.Budget{},
		&models.Goal{},
		&models.Investment{},
	)
}

func (m *Manager) Users() interfaces.UserStore               { return &UserStore{db: m.db} }
func (m *Manager) Roles() interfaces.RoleStore               { return &RoleStore{db: m.db} }
func (m *Manager) Accounts() interfaces.AccountStore         { return &AccountStore{db: m.db} }
func (m *Manager) Transactions() interfaces.TransactionStore { return &TransactionStore{db: m.db} }
func (m *Manager) Budgets() interfaces.BudgetStore           { return &BudgetStore{db: m.db} }
func (m *Manager) Goals() interfaces.GoalStore               { return &GoalStore{db: m.db} }
func (m *Manager) Investments() interfaces.InvestmentStore   { return &InvestmentStore{db: m.db} }

// WithTx runs fn inside one database transaction. The Stores handed to
// fn share that transaction; fn returning an error rolls it back.
func (m *Manager) WithTx(ctx context.Context, fn func(s interfaces.Stores) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Manager{db: tx, logger: m.logger})
	})
}

// Close releases the underlying connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
