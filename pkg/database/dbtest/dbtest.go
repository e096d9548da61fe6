// Package dbtest opens throwaway databases for repository and usecase tests.
package dbtest

import (
	"fmt"
	"testing"

	"hookr/pkg/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New returns an in-memory sqlite database with every hookr table migrated.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with the given role and creator status.
func CreateUser(t testing.TB, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:    username + "@hookr.test",
		Username: username,
		Password: "hash",
		Role:     role,
		IsActive: true,
	}
	if role == models.RoleCreator {
		user.CreatorStatus = models.CreatorApproved
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateModel inserts a creator profile owned by userID.
func CreateModel(t testing.TB, db *gorm.DB, userID, name string) *models.CreatorProfile {
	t.Helper()
	m := &models.CreatorProfile{UserID: userID, Name: name, Age: 25, PriceCents: 20000}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to create model: %v", err)
	}
	return m
}
