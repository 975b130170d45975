package repository

import (
	"context"
	"testing"
	"time"

	"climateforum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPostAscending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	first := createPost(t, db, alice.ID, "Heatwaves", time.Now())
	second := createPost(t, db, alice.ID, "Flooding", time.Now())

	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	// Interleave comments across two posts, inserted out of chronological order.
	inserts := []models.Comment{
		{PostID: first.ID, UserID: bob.ID, Content: "third", CreatedAt: base.Add(3 * time.Minute)},
		{PostID: second.ID, UserID: bob.ID, Content: "other", CreatedAt: base.Add(2 * time.Minute)},
		{PostID: first.ID, UserID: alice.ID, Content: "first", CreatedAt: base.Add(1 * time.Minute)},
		{PostID: first.ID, UserID: bob.ID, Content: "second", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range inserts {
		require.NoError(t, repo.Create(ctx, &inserts[i]))
	}

	comments, err := repo.ListByPost(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "alice", comments[0].AuthorUsername)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "third", comments[2].Content)

	empty, err := repo.ListByPost(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_CreateOnMissingPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	alice := createUser(t, db, "alice")

	err := repo.Create(context.Background(), &models.Comment{PostID: 999, UserID: alice.ID, Content: "orphan"})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestCommentRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "Heatwaves", time.Now())

	c := &models.Comment{PostID: post.ID, UserID: alice.ID, Content: "hello"}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.PostID)

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
