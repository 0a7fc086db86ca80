package services

import (
	"context"
	"strings"
	"testing"

	"devflow/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeRevalidator records the paths it was asked to mark stale.
type fakeRevalidator struct {
	paths []string
}

func (f *fakeRevalidator) Revalidate(_ context.Context, path string) error {
	f.paths = append(f.paths, path)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database lives on a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Tag{},
		&models.Answer{},
		&models.Interaction{},
	))

	return db
}

func newTestQuestionService(t *testing.T) (*QuestionService, *fakeRevalidator, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	revalidator := &fakeRevalidator{}
	return NewQuestionService(db, revalidator, zap.NewNop()), revalidator, db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Username: strings.ToLower(name),
		Email:    strings.ToLower(name) + "@example.com",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// longContent pads a marker out to the minimum content length.
func longContent(marker string) string {
	return marker + " " + strings.Repeat("x", 120)
}
