// Package app wires the ledger core together for embedding callers: the
// HTTP layer, report generator, and PDF renderer all start here instead
// of assembling repositories and services by hand.
package app

import (
	"go.uber.org/zap"

	"github.com/khata/backend/internal/application/khata"
	"github.com/khata/backend/internal/infrastructure/config"
	"github.com/khata/backend/internal/infrastructure/logger"
	"github.com/khata/backend/internal/infrastructure/persistence"
)

// App holds the assembled ledger core
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Database *persistence.Database

	Accounts *khata.AccountService
	Reports  *khata.ReportService
}

// New loads configuration, connects to the database, and wires the
// services. The caller owns the returned App and must Close it.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig wires the ledger core against an already loaded
// configuration
func NewWithConfig(cfg *config.Config) (*App, error) {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, err
	}

	log.Info("Starting khata ledger core",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}
	log.Info("Database connected")

	accountRepo := persistence.NewGormAccountRepository(db.DB)
	ownerRepo := persistence.NewGormOwnerRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	return &App{
		Config:   cfg,
		Logger:   log,
		Database: db,
		Accounts: khata.NewAccountService(accountRepo, ownerRepo),
		Reports:  khata.NewReportService(reportRepo),
	}, nil
}

// Close releases the database connection and flushes logs
func (a *App) Close() error {
	logger.Sync(a.Logger)
	return a.Database.Close()
}
