package service

import (
	"context"
	"errors"
	"testing"

	"climateforum/internal/models"
	"climateforum/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blank content never reaches the store", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.existsFn = func(_ context.Context, _ uint) (bool, error) {
			t.Error("post lookup must not run for blank content")
			return true, nil
		}
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, _ *models.Comment) error {
			t.Error("create must not be called")
			return nil
		}
		svc := NewCommentService(commentRepo, postRepo)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, Content: " \n\t "})
		assertAppError(t, err, models.CodeValidation, validation.MsgCommentEmpty)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
		svc := NewCommentService(noopCommentRepo(), postRepo)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 99, Content: "hi"})
		assertAppError(t, err, models.CodeNotFound, "Post not found.")
	})

	t.Run("repo error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("insert failed")
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, _ *models.Comment) error { return repoErr }
		svc := NewCommentService(commentRepo, noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, Content: "hi"})
		require.ErrorIs(t, err, repoErr)
	})

	t.Run("success trims content", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		comment, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 2, PostID: 3, Content: "  stay cool  "})
		require.NoError(t, err)
		assert.Equal(t, "stay cool", comment.Content)
		assert.Equal(t, uint(2), comment.UserID)
		assert.Equal(t, uint(3), comment.PostID)
	})
}
