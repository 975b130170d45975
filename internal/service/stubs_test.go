package service

import (
	"context"
	"testing"

	"climateforum/internal/models"
	"climateforum/internal/repository"

	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	existsFn        func(context.Context, string, string) (bool, error)
	setModeratorFn  func(context.Context, string, bool) (*models.User, error)
	countFn         func(context.Context) (int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return s.existsFn(ctx, username, email)
}
func (s *userRepoStub) SetModerator(ctx context.Context, username string, isModerator bool) (*models.User, error) {
	return s.setModeratorFn(ctx, username, isModerator)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return nil, models.NewNotFoundError("User") },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		existsFn:        func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		setModeratorFn: func(_ context.Context, username string, _ bool) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
		countFn: func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn    func(context.Context, *models.Post) error
	listFn      func(context.Context, repository.ListPostsFilter) ([]models.PostSummary, error)
	getDetailFn func(context.Context, uint, uint) (*models.PostDetail, error)
	existsFn    func(context.Context, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.ListPostsFilter) ([]models.PostSummary, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) GetDetail(ctx context.Context, id, viewerID uint) (*models.PostDetail, error) {
	return s.getDetailFn(ctx, id, viewerID)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		listFn: func(_ context.Context, _ repository.ListPostsFilter) ([]models.PostSummary, error) {
			return []models.PostSummary{}, nil
		},
		getDetailFn: func(_ context.Context, id, _ uint) (*models.PostDetail, error) {
			return &models.PostDetail{ID: id}, nil
		},
		existsFn: func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.CommentView, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.CommentView, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]models.CommentView, error) { return []models.CommentView{}, nil },
	}
}

type reactionRepoStub struct {
	toggleFn func(context.Context, uint, uint) (*models.ToggleResult, error)
}

func (s *reactionRepoStub) Toggle(ctx context.Context, postID, userID uint) (*models.ToggleResult, error) {
	return s.toggleFn(ctx, postID, userID)
}

type reportRepoStub struct {
	createFn       func(context.Context, *models.Report) error
	listFn         func(context.Context, string) ([]models.Report, error)
	updateStatusFn func(context.Context, uint, string) error
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) List(ctx context.Context, status string) ([]models.Report, error) {
	return s.listFn(ctx, status)
}
func (s *reportRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	return s.updateStatusFn(ctx, id, status)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn: func(_ context.Context, report *models.Report) error {
			if err := report.Validate(); err != nil {
				return err
			}
			report.ID = 1
			return nil
		},
		listFn:         func(_ context.Context, _ string) ([]models.Report, error) { return []models.Report{}, nil },
		updateStatusFn: func(_ context.Context, _ uint, _ string) error { return nil },
	}
}

func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}
