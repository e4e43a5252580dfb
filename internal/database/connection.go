// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/scholartrack/backend/internal/config"
	"github.com/scholartrack/backend/internal/models"
)

// Initialize opens the PostgreSQL connection and configures the pool.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	default:
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunMigrations creates or updates the schema for all models.
func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Scholarship{},
		&models.Application{},
		&models.TimelineEntry{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("index creation failed: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_applications_user_status ON applications(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_applications_scholarship ON applications(scholarship_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_user_scholarship ON applications(user_id, scholarship_id) WHERE deleted_at IS NULL AND status != 'Withdrawn'",
		"CREATE INDEX IF NOT EXISTS idx_timeline_entries_application ON timeline_entries(application_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_scholarships_status_deadline ON scholarships(status, deadline)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read_at)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", idx)
		}
	}

	return nil
}

// SeedInitialData creates the default admin account if no admin exists.
func SeedInitialData(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@scholartrack.app",
		Role:     models.UserRoleAdmin,
		Status:   models.UserStatusActive,
	}
	if err := admin.SetPassword("Admin@123456"); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	logrus.Info("Seeded default admin user")
	return nil
}

// WithTransaction runs fn inside a transaction, rolling back on error.
func WithTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}
