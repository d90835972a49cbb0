package config

import (
	"attendance/domain"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// GetDatabaseURL builds the database connection string.
func GetDatabaseURL() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))
	return dsn
}

// BootDB initializes the database connection and runs migrations.
func BootDB() (*gorm.DB, error) {
	url := GetDatabaseURL()
	var err error

	db, err = gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return db, err
	}

	GetLogrusInstance().Info("DB initialized")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	if err := db.Exec(`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'role_enum') THEN
			CREATE TYPE role_enum AS ENUM ('admin', 'staff');
		END IF;
	END $$`).Error; err != nil {
		return fmt.Errorf("failed to create role ENUM: %w", err)
	}

	// tables without foreign keys first
	if err := db.AutoMigrate(
		&domain.Class{},
		&domain.Student{},
		&domain.User{},
	); err != nil {
		return fmt.Errorf("failed to migrate base tables: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.Attendance{},
	); err != nil {
		return fmt.Errorf("failed to migrate relational tables: %w", err)
	}

	return seedAdmin(db)
}

func seedAdmin(db *gorm.DB) error {
	var existingAdmin domain.User
	err := db.Where("role = 'admin'").First(&existingAdmin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("could not look up admin account: %w", err)
	}

	log := GetLogrusInstance()
	log.Info("Creating default admin account....")

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		return errors.New("ADMIN_PASSWORD must be set to seed the admin account")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	now := time.Now()
	admin := domain.User{
		Username:  envOr("ADMIN_USERNAME", "admin"),
		Name:      envOr("ADMIN_NAME", "Administrator"),
		Password:  string(hashedPassword),
		Role:      "admin",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Info("Admin account created")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
