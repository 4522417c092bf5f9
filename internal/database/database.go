package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ordforrad/api/internal/config"
	"github.com/ordforrad/api/internal/model"
)

// Connect opens the primary database. DB_DRIVER=sqlite treats DATABASE_URL
// as a file path, which is how the local mirror runs.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return Open(cfg.DBDriver, cfg.DatabaseURL, logger.Info)
}

// Open connects with an explicit driver and log level.
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// A single connection keeps :memory: databases shared and avoids
		// SQLITE_BUSY on the mirror file.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Word{},
		&model.Progress{},
		&model.User{},
		&model.RefreshToken{},
		&model.QuizSession{},
		&model.Submission{},
	)
}
