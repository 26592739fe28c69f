package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/logging"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/models"
)

// Open connects the embedded result store and runs migrations. The store is
// a single sqlite file under the results directory, one per project.
func Open(path string, log *zap.Logger) (*gorm.DB, error) {
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open result store %s: %w", path, err)
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}
	log.Info("Result store ready", zap.String("path", path))
	return db, nil
}

func runMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.AnalysisRun{},
		&models.RecordingResult{},
		&models.BinResult{},
	)
	if err != nil {
		return fmt.Errorf("result store migrations: %w", err)
	}
	return nil
}
