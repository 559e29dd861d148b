package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"phonics-audio/internal/appdirs"
	"phonics-audio/internal/types"
	"phonics-audio/log"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var appDirsResolver = appdirs.Resolve

// Ledger persists pair outcomes and run summaries in sqlite.
type Ledger struct {
	db *gorm.DB
}

// OpenDefault opens the ledger at the resolved cache dir.
func OpenDefault() (*Ledger, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	return Open(dbPath)
}

func Open(dbPath string) (*Ledger, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", dir, err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database handle: %w", err)
	}
	// sqlite has a single writer
	sqlDB.SetMaxOpenConns(1)

	if err = db.AutoMigrate(&types.AssetRecord{}, &types.AssetRun{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.GetLogger().Info("Ledger initialized", zap.String("path", dbPath))
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func resolveDBPath() (string, error) {
	dirs, err := appDirsResolver()
	if err != nil {
		return "", err
	}
	return appdirs.DBPathFor(dirs), nil
}
