package models

import (
	"time"

	"github.com/samber/lo"
)

// CategoryAll is the listing filter value that disables category filtering.
const CategoryAll = "all"

// Categories is the fixed, ordered set of forum topics.
var Categories = []string{
	"Heatwaves",
	"Flooding",
	"Strong winds & storms",
	"Emotional & mental health impacts",
	"Daily life experiences",
}

// IsValidCategory reports whether name is one of Categories.
func IsValidCategory(name string) bool {
	return lo.Contains(Categories, name)
}

// Post is a forum thread opener. Posts are immutable once created.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Category  string    `gorm:"not null;index" json:"category"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// PostSummary is a listing row: the post with its author and aggregate counts.
type PostSummary struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	Category       string    `json:"category"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorUsername string    `json:"author_username"`
	ReactionCount  int64     `json:"reaction_count"`
	CommentCount   int64     `json:"comment_count"`
}

// PostDetail is a single post as shown on its own page.
type PostDetail struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	Category       string    `json:"category"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorUsername string    `json:"author_username"`
	ReactionCount  int64     `json:"reaction_count"`
	UserReacted    bool      `json:"user_reacted" gorm:"-"`
}
