package repository

import (
	"context"
	"testing"
	"time"

	"climateforum/internal/models"
	"climateforum/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB returns a migrated in-memory database private to the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createPost(t *testing.T, db *gorm.DB, userID uint, category string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Category: category, Title: "title " + category, Content: "body", CreatedAt: createdAt}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}
