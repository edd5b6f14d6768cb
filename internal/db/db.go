// Package db opens the configured database and keeps its schema current.
package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/db/dsn"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/logger/adapter/stdlogger"
)

const slowQueryThreshold = 200 * time.Millisecond

// ErrConfigNil is returned when Open is called without configuration.
var ErrConfigNil = errors.New("database config is nil")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(dsn.MySQL(cfg))
	case config.EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg))
	default:
		return sqlite.Open(dsn.SQLite(cfg))
	}
}

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	logLevel := gormlogger.Warn
	if cfg.DevMode {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(Dialector(cfg), &gorm.Config{
		Logger: gormlogger.New(stdlogger.NewComponent("gorm"), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	if cfg.DB.GormEngine == config.EngineSQLite {
		// sqlite allows one writer; a single connection also keeps ":memory:" databases alive.
		sqlDB, errDB := db.DB()
		if errDB != nil {
			return nil, errors.Wrap(errDB, "failed to access sqlite pool")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates all application tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
