package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/personsweb/logging"
	"github.com/camden-git/personsweb/models"
)

// InitGormDB opens the sqlite session database and migrates its schema.
func InitGormDB(dataSourceName string, log *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		logging.StdLog(log, "gorm"),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	// enable write-ahead logging so the sweeper does not block page requests
	if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
		log.Warn("failed to set WAL mode", zap.Error(err))
	}

	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrateModels(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("session database initialized", zap.String("path", dataSourceName))
	return db, nil
}

// AutoMigrateModels creates or updates the tables used by the session store.
func AutoMigrateModels(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.PageSession{}); err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	return nil
}
