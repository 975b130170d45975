package service

import (
	"context"
	"testing"

	"climateforum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SetModerator(t *testing.T) {
	t.Parallel()

	var gotFlag bool
	repo := noopUserRepo()
	repo.setModeratorFn = func(_ context.Context, username string, flag bool) (*models.User, error) {
		gotFlag = flag
		return &models.User{ID: 4, Username: username}, nil
	}
	svc := NewUserService(repo)

	user, err := svc.SetModerator(context.Background(), "carol", true)
	require.NoError(t, err)
	assert.True(t, gotFlag)
	assert.True(t, user.IsModerator)

	_, err = svc.SetModerator(context.Background(), "", true)
	assertAppError(t, err, models.CodeValidation, "")
}
