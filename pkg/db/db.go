package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"

	"github.com/nhatrolabs/nhatro/internal/config"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

// New opens the configured database. Postgres is the production target;
// sqlite covers local development and tests.
func New(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DB.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DB.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
	}

	if cfg.DB.Driver == config.DriverPostgres {
		if err := conn.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          "nhatro",
			RefreshInterval: 15,
		})); err != nil {
			log.Warn("register gorm prometheus plugin", zap.Error(err))
		}
	}

	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	return conn, nil
}
