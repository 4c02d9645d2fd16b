package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Apurer/agrovet-registry/internal/platform/migrations"
)

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectAndMigrate dials PostgreSQL, applies the stable memory schema and
// returns the DB plus a cleanup function closing the pool.
func ConnectAndMigrate(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func(), error) {
	db, err := Connect(ctx, dsn)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, func() {}, fmt.Errorf("unwrap postgres connection: %w", err)
	}
	cleanup := func() { _ = sqlDB.Close() }
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("migrate stable memory schema: %w", err)
	}
	if logger != nil {
		logger.Info("postgres connection established")
	}
	return db, cleanup, nil
}
