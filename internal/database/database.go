package database

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thankiuday/Phygital-sub005/internal/models"
)

// DB is the global database instance
var DB *gorm.DB

// InitDB initializes the database connection and performs migrations
func InitDB() (*gorm.DB, error) {
	// Get database connection parameters from environment variables
	host := getEnv("DB_HOST", "")
	port := getEnv("DB_PORT", "")
	user := getEnv("DB_USER", "")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "")
	sslmode := getEnv("DB_SSLMODE", "disable")

	// Validate required environment variables
	if host == "" || port == "" || user == "" || password == "" || dbname == "" {
		return nil, fmt.Errorf("missing required database environment variables. Please check your .env file")
	}

	// Create DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	// Configure GORM logger
	gormLogger := logger.New(
		logrus.New(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true, // Disable FK constraints during migration to avoid order issues
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Create public schema if it doesn't exist
	err = db.Exec("CREATE SCHEMA IF NOT EXISTS public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to create public schema: %w", err)
	}

	// Set search_path to public
	err = db.Exec("SET search_path TO public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to set search_path: %w", err)
	}

	// Enable pgcrypto for gen_random_uuid() defaults
	err = db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\" SCHEMA public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	// Auto migrate the schema
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Campaign{},
		&models.File{},
		&models.ScanEvent{},
		&models.WorkflowDraft{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Migration: backfill campaign_type for rows created before the type
	// column existed. Everything predating it was a plain redirect code.
	var typeColumnExists bool
	err = db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = 'campaigns'
			AND column_name = 'campaign_type'
		)
	`).Scan(&typeColumnExists).Error
	if err != nil {
		logrus.Warnf("Failed to check if campaign_type column exists: %v", err)
	} else if typeColumnExists {
		err = db.Exec(`UPDATE campaigns SET campaign_type = 'redirect' WHERE campaign_type IS NULL OR campaign_type = ''`).Error
		if err != nil {
			logrus.Warnf("Failed to backfill campaign_type: %v", err)
		}
	}

	// Migration: drop the legacy per-campaign draft column. Drafts moved
	// into their own workflow_drafts table keyed by user and campaign.
	var draftColumnExists bool
	err = db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = 'campaigns'
			AND column_name = 'draft_payload'
		)
	`).Scan(&draftColumnExists).Error
	if err != nil {
		logrus.Warnf("Failed to check if draft_payload column exists: %v", err)
	} else if draftColumnExists {
		logrus.Info("Dropping draft_payload column from campaigns table...")
		err = db.Exec("ALTER TABLE campaigns DROP COLUMN IF EXISTS draft_payload").Error
		if err != nil {
			logrus.Warnf("Failed to drop draft_payload column: %v", err)
		} else {
			logrus.Info("Successfully dropped draft_payload column")
		}
	}

	// Migration: one draft per user and campaign key
	var draftsUniqueIndexExists bool
	err = db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM pg_indexes
			WHERE schemaname = 'public'
			AND tablename = 'workflow_drafts'
			AND indexname = 'idx_drafts_user_campaign'
		)
	`).Scan(&draftsUniqueIndexExists).Error
	if err != nil {
		logrus.Warnf("Failed to check if drafts unique index exists: %v", err)
	} else if !draftsUniqueIndexExists {
		logrus.Info("Creating unique index on workflow_drafts (user_id, campaign_key)...")
		err = db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_drafts_user_campaign
			ON workflow_drafts(user_id, campaign_key)
		`).Error
		if err != nil {
			logrus.Warnf("Failed to create unique index on workflow_drafts (user_id, campaign_key): %v", err)
		} else {
			logrus.Info("Successfully created unique index on workflow_drafts (user_id, campaign_key)")
		}
	}

	// Set global DB instance
	DB = db

	logrus.Info("Database connection established and migrations completed")
	return db, nil
}

// GetDB returns the global database instance
func GetDB() *gorm.DB {
	return DB
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
