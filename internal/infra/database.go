package infra

import (
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
)

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&db_models.Account{},
		&db_models.Content{},
		&db_models.Vote{},
		&db_models.Feedback{},
		&db_models.Option{},
	}
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "postgresql":
		pg := postgres.Config{DSN: cfg.DSN}
		if cfg.SQLDriver == "postgres" {
			// lib/pq registers itself as "postgres"
			pg.DriverName = "postgres"
		}
		return postgres.New(pg), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "sqlite", "sqlite3":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// OpenDatabase connects using the configured driver.
func OpenDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Driver)
	}

	log.Info().Str("driver", cfg.Driver).Msg("database connected")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(Models()...), "auto migrate")
}

func CloseDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("error getting database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("error closing database connection")
	} else {
		log.Info().Msg("database connection closed")
	}
}

func StartTransaction(db *gorm.DB) *gorm.DB {
	tx := db.Begin()
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("error starting transaction")
	}
	return tx
}

// ReleaseTransaction rolls tx back when err is set and commits otherwise. It
// returns err unchanged, or the commit error.
func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Error().Err(rollbackErr).Msg("error rolling back transaction")
		}
		return err
	}
	if commitErr := tx.Commit().Error; commitErr != nil {
		log.Error().Err(commitErr).Msg("error committing transaction")
		return errors.Wrap(commitErr, "commit transaction")
	}
	return nil
}
