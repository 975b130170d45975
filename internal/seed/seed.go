// Package seed creates demo data for development. It is not used by the server.
package seed

import (
	"context"
	"fmt"
	"time"

	"climateforum/internal/middleware"
	"climateforum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

// Options configures a seeding run.
type Options struct {
	Users int
	Posts int
	// MaxCommentsPerPost bounds the random number of comments on each post.
	MaxCommentsPerPost int
	// Seed makes runs reproducible; zero picks one from the clock.
	Seed       int64
	BcryptCost int
}

// Summary counts what a run created.
type Summary struct {
	Users     int
	Posts     int
	Comments  int
	Reactions int
}

// Factory builds and persists fake forum content.
type Factory struct {
	db   *gorm.DB
	fake *gofakeit.Faker
	hash string
}

// NewFactory hashes DemoPassword once and returns a Factory writing to db.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, err
	}
	return &Factory{db: db, fake: gofakeit.New(seed), hash: string(hash)}, nil
}

// CreateUser persists a fake account. Usernames carry a numeric suffix to stay unique.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:     fmt.Sprintf("%s%d", f.fake.Username(), f.fake.Number(1000, 9999)),
		PasswordHash: f.hash,
	}
	user.Email = fmt.Sprintf("%s@%s", user.Username, f.fake.DomainName())
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post by author in a random category, dated within the last 90 days.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	ago := time.Duration(f.fake.Number(0, 90*24*60)) * time.Minute
	return &models.Post{
		UserID:    author.ID,
		Category:  f.fake.RandomString(models.Categories),
		Title:     f.fake.Sentence(f.fake.Number(3, 8)),
		Content:   f.fake.Paragraph(1, 3, 12, "\n\n"),
		CreatedAt: time.Now().Add(-ago),
	}
}

// BuildComment returns an unsaved comment on post, dated after the post.
func (f *Factory) BuildComment(post *models.Post, author *models.User) *models.Comment {
	after := time.Duration(f.fake.Number(1, 48*60)) * time.Minute
	return &models.Comment{
		PostID:    post.ID,
		UserID:    author.ID,
		Content:   f.fake.Sentence(f.fake.Number(4, 20)),
		CreatedAt: post.CreatedAt.Add(after),
	}
}

// Run seeds opts.Users accounts and opts.Posts posts with comments and likes.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	if opts.Users <= 0 {
		return nil, fmt.Errorf("users must be positive, got %d", opts.Users)
	}
	if opts.MaxCommentsPerPost < 0 {
		opts.MaxCommentsPerPost = 0
	}

	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return summary, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
		summary.Users++
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < opts.Posts; i++ {
			post := f.BuildPost(users[f.fake.Number(0, len(users)-1)])
			if err := tx.Create(post).Error; err != nil {
				return fmt.Errorf("create post: %w", err)
			}
			summary.Posts++

			for j := f.fake.Number(0, opts.MaxCommentsPerPost); j > 0; j-- {
				comment := f.BuildComment(post, users[f.fake.Number(0, len(users)-1)])
				if err := tx.Create(comment).Error; err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				summary.Comments++
			}

			for _, u := range users {
				if !f.fake.Bool() {
					continue
				}
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Reaction{
					PostID:       post.ID,
					UserID:       u.ID,
					ReactionType: models.ReactionLike,
				})
				if res.Error != nil {
					return fmt.Errorf("create reaction: %w", res.Error)
				}
				summary.Reactions += int(res.RowsAffected)
			}
		}
		return nil
	})
	if err != nil {
		return summary, err
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		"users", summary.Users,
		"posts", summary.Posts,
		"comments", summary.Comments,
		"reactions", summary.Reactions,
	)
	return summary, nil
}
