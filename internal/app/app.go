// Package app wires configuration, storage, and services together.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/mailer"
	"github.com/bobmcallan/moneta/internal/services/finance"
	"github.com/bobmcallan/moneta/internal/services/identity"
	"github.com/bobmcallan/moneta/internal/storage"
)

// App holds the application dependencies shared by the HTTP server.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager
	Mailer  interfaces.Mailer

	Finance  interfaces.FinanceService
	Identity interfaces.IdentityService

	StartupTime time.Time
}

// New loads configuration, opens storage, and constructs the services.
// The default roles and admin account are ensured before returning.
func New(configPaths ...string) (*App, error) {
	config, err := common.LoadConfig(configPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := storage.NewManager(logger, config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var outbound interfaces.Mailer
	if config.Mail.SendGridKey != "" {
		outbound = mailer.NewClient(config.Mail, mailer.WithLogger(logger))
	} else {
		logger.Warn().Msg("No SendGrid key configured, mail is logged instead of delivered")
		outbound = mailer.NewLogMailer(logger)
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     store,
		Mailer:      outbound,
		Finance:     finance.NewService(store, logger),
		Identity:    identity.NewService(store, outbound, config, logger),
		StartupTime: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.Identity.EnsureDefaults(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ensure default roles: %w", err)
	}

	return a, nil
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
