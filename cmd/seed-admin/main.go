// seed-admin creates or updates the platform admin account.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
//
// Email and password come from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"gorm.io/gorm"
)

func main() {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@bizflow.local"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD is required")
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Email:        email,
			PasswordHash: string(hashed),
			FullName:     "BizFlow Admin",
			Role:         models.RoleAdmin,
			Status:       models.UserStatusActive,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin user: email=%q\n", email)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(map[string]any{
		"password_hash": string(hashed),
		"role":          models.RoleAdmin,
		"status":        models.UserStatusActive,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	if err := models.InvalidateUserCache(existing.ID); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to drop cached user: %v\n", err)
	}
	fmt.Printf("Updated admin user: email=%q\n", email)
}
