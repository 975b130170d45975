package service

import (
	"context"
	"log/slog"
	"strings"

	"climateforum/internal/middleware"
	"climateforum/internal/models"
	"climateforum/internal/observability"
	"climateforum/internal/repository"
	"climateforum/internal/validation"
)

// PostService lists, creates and loads posts.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

type CreatePostInput struct {
	UserID   uint
	Category string
	Title    string
	Content  string
}

// PostPage is a post with its comments in reading order.
type PostPage struct {
	Post     *models.PostDetail
	Comments []models.CommentView
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *PostService {
	return &PostService{postRepo: postRepo, commentRepo: commentRepo}
}

// NormalizeCategory maps the empty filter and "all" to no filter.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == models.CategoryAll {
		return ""
	}
	return category
}

// ListPosts returns summaries newest first, optionally for one category.
func (s *PostService) ListPosts(ctx context.Context, category string) (_ []models.PostSummary, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "posts", "List")
	defer func() { observability.EndSpan(span, err) }()

	return s.postRepo.List(ctx, repository.ListPostsFilter{Category: NormalizeCategory(category)})
}

// RecentPosts returns the newest posts across every category.
func (s *PostService) RecentPosts(ctx context.Context, limit int) ([]models.PostSummary, error) {
	return s.postRepo.List(ctx, repository.ListPostsFilter{Limit: limit})
}

// CreatePost validates and stores a post for the acting user.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	if err := validation.ValidatePost(in.Category, in.Title, in.Content); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   in.UserID,
		Category: in.Category,
		Title:    in.Title,
		Content:  in.Content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.PostsCreated.WithLabelValues(post.Category).Inc()
	middleware.Logger.InfoContext(ctx, "post created",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.String("category", post.Category),
	)
	return post, nil
}

// GetPostPage loads a post and its comments. viewerID 0 means anonymous.
func (s *PostService) GetPostPage(ctx context.Context, postID, viewerID uint) (*PostPage, error) {
	post, err := s.postRepo.GetDetail(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &PostPage{Post: post, Comments: comments}, nil
}
