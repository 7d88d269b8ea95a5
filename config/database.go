package config

import (
	"log/slog"
	"os"

	"github.com/mhnazary/school-managment-system/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the Postgres connection from DB_URL and stores it in DB.
// TranslateError is enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey regardless of the driver.
func ConnectDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		slog.Error("environment variable DB_URL is not set")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("connected to database")
}

// MigrateDB creates or updates the schema for every model, including the
// unique index on (teacher_id, installment) for salary payments.
func MigrateDB() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.TuitionPayment{},
		&models.SalaryPayment{},
		&models.Expense{},
	)
	if err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database migration complete")
}

// SeedUsers creates the two built-in accounts when they are missing. The
// initial passwords come from ADMIN_PASSWORD and ADMINISTRATOR_PASSWORD and
// should be rotated through the password endpoint after first login.
func SeedUsers() {
	seed := []struct {
		role     models.Role
		password string
	}{
		{models.RoleAdmin, Getenv("ADMIN_PASSWORD", "admin123")},
		{models.RoleAdministrator, Getenv("ADMINISTRATOR_PASSWORD", "administrator123")},
	}
	for _, s := range seed {
		var count int64
		if err := DB.Model(&models.User{}).Where("username = ?", string(s.role)).Count(&count).Error; err != nil {
			slog.Error("user seed check failed", "username", string(s.role), "error", err)
			os.Exit(1)
		}
		if count > 0 {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("password hash failed", "error", err)
			os.Exit(1)
		}
		user := models.User{Username: string(s.role), Password: string(hash), Role: s.role}
		if err := DB.Create(&user).Error; err != nil {
			slog.Error("user seed failed", "username", user.Username, "error", err)
			os.Exit(1)
		}
		slog.Info("seeded built-in user", "username", user.Username)
	}
}
