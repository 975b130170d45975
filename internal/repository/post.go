package repository

import (
	"context"

	"climateforum/internal/models"
	"climateforum/internal/observability"

	"gorm.io/gorm"
)

// ListPostsFilter narrows a post listing. An empty Category lists every category.
type ListPostsFilter struct {
	Category string
	Limit    int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context, filter ListPostsFilter) ([]models.PostSummary, error)
	GetDetail(ctx context.Context, id uint, viewerID uint) (*models.PostDetail, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = "posts.id, posts.user_id, posts.category, posts.title, posts.content, posts.created_at"

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// List returns summaries newest first. The reaction and comment joins fan out,
// so both counts are DISTINCT and the rows are grouped per post.
func (r *postRepository) List(ctx context.Context, filter ListPostsFilter) ([]models.PostSummary, error) {
	defer observability.TrackQuery("list", "posts")()

	q := r.db.WithContext(ctx).
		Table("posts").
		Select(postColumns + ", users.username AS author_username," +
			" COUNT(DISTINCT reactions.id) AS reaction_count," +
			" COUNT(DISTINCT comments.id) AS comment_count").
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN reactions ON reactions.post_id = posts.id").
		Joins("LEFT JOIN comments ON comments.post_id = posts.id").
		Group(postColumns + ", users.username").
		Order("posts.created_at DESC, posts.id DESC")

	if filter.Category != "" {
		q = q.Where("posts.category = ?", filter.Category)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	posts := []models.PostSummary{}
	if err := q.Scan(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// GetDetail loads a post with its author and reaction count. viewerID 0 means anonymous.
func (r *postRepository) GetDetail(ctx context.Context, id uint, viewerID uint) (*models.PostDetail, error) {
	defer observability.TrackQuery("detail", "posts")()

	var rows []models.PostDetail
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(postColumns+", users.username AS author_username, COUNT(reactions.id) AS reaction_count").
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN reactions ON reactions.post_id = posts.id").
		Where("posts.id = ?", id).
		Group(postColumns + ", users.username").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("Post")
	}

	detail := rows[0]
	if viewerID != 0 {
		var reacted int64
		err := r.db.WithContext(ctx).
			Model(&models.Reaction{}).
			Where("post_id = ? AND user_id = ?", id, viewerID).
			Count(&reacted).Error
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		detail.UserReacted = reacted > 0
	}
	return &detail, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
