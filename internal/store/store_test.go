package store

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/warblerhq/warbler/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follow{}, &models.Like{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user, err := NewUserStore(db).Signup(username, username+"@test.com", "secret-"+username, "")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedMessage(t *testing.T, db *gorm.DB, authorID uint, text string) models.Message {
	t.Helper()
	msg, err := NewMessageStore(db).Create(authorID, text)
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return msg
}
