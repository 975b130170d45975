package models

import "time"

// ReactionLike is the only reaction kind currently offered.
const ReactionLike = "like"

// Toggle outcomes reported to the client.
const (
	ReactionAdded   = "added"
	ReactionRemoved = "removed"
)

// Reaction records that a user endorsed a post.
// The combination of PostID and UserID must be unique.
type Reaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PostID       uint      `gorm:"not null;uniqueIndex:idx_reaction_post_user" json:"post_id"`
	Post         Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_reaction_post_user" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ReactionType string    `gorm:"not null;default:like" json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToggleResult is the outcome of flipping a user's reaction on a post.
type ToggleResult struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}
