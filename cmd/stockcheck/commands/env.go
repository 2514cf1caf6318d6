package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jask/stockcheck/internal/config"
	"github.com/jask/stockcheck/internal/database"
	"github.com/jask/stockcheck/internal/database/repository"
	"github.com/jask/stockcheck/internal/logging"
	"github.com/jask/stockcheck/internal/prefs"
	"github.com/jask/stockcheck/internal/settings"
	"github.com/jask/stockcheck/internal/tui"
)

// env is everything a command needs after config is resolved.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	db      *sql.DB
	stores  settings.Stores
	catalog tui.Catalog
	loc     *time.Location
}

func openEnv(ctx context.Context, path string) (*env, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Warn("using local timezone", zap.String("timezone", cfg.UI.Timezone), zap.Error(err))
		loc = time.Local
	}

	e := &env{
		cfg: cfg,
		log: log,
		db:  db,
		catalog: tui.Catalog{
			Companies: repository.NewCompanyRepo(db),
			Groups:    repository.NewProductGroupRepo(db),
			Products:  repository.NewProductRepo(db),
		},
		loc: loc,
	}

	switch cfg.Storage.Backend {
	case config.BackendFile:
		s := prefs.NewStores(cfg.Storage.Dir)
		e.stores = settings.Stores{Company: s.Company, Filter: s.Filter, DateFilter: s.DateFilter}
	default:
		e.stores = settings.Stores{
			Company:    repository.NewCompanySelectionRepo(db),
			Filter:     repository.NewProductFilterRepo(db),
			DateFilter: repository.NewDateFilterRepo(db),
		}
	}
	return e, nil
}

func (e *env) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.log.Sync()
}

// logSink stands in for the UI when a command drives the provider headless.
type logSink struct {
	log *zap.Logger
}

func (s logSink) Navigate(screen settings.Screen, params settings.Params) {
	s.log.Info("navigate", zap.String("screen", string(screen)), zap.Any("params", params))
}

func (s logSink) Show(n settings.Notification) {
	s.log.Info("notification", zap.String("kind", string(n.Kind)), zap.String("title", n.Title), zap.String("body", n.Body))
}
