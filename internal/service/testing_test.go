package service

import (
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Department{},
		&model.Application{},
		&model.ApplicationRequest{},
		&model.UserFavorite{},
		&model.UserApplicationListEntry{},
		&model.AuditLog{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	user := model.User{Email: email, Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedDepartment(t *testing.T, db *gorm.DB, name string) model.Department {
	t.Helper()
	dept := model.Department{Name: name}
	require.NoError(t, db.Create(&dept).Error)
	return dept
}

func seedApplication(t *testing.T, db *gorm.DB, name string) model.Application {
	t.Helper()
	app := model.Application{
		Name:     name,
		URL:      "https://" + name + ".internal.example.com",
		AuthType: model.AuthTypeSSO,
	}
	require.NoError(t, db.Create(&app).Error)
	return app
}
