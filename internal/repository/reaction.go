package repository

import (
	"context"
	"errors"

	"climateforum/internal/database"
	"climateforum/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines persistence operations for reactions.
type ReactionRepository interface {
	Toggle(ctx context.Context, postID, userID uint) (*models.ToggleResult, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Toggle removes the user's reaction on the post if present, otherwise adds a like,
// and returns the resulting count. All steps share one transaction.
func (r *reactionRepository) Toggle(ctx context.Context, postID, userID uint) (*models.ToggleResult, error) {
	result := &models.ToggleResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock on the post serializes concurrent toggles of the same post.
		q := tx.Select("id")
		if database.IsPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var post models.Post
		if err := q.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post")
			}
			return err
		}

		deleted := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Reaction{})
		if deleted.Error != nil {
			return deleted.Error
		}

		if deleted.RowsAffected > 0 {
			result.Action = models.ReactionRemoved
		} else {
			reaction := models.Reaction{PostID: postID, UserID: userID, ReactionType: models.ReactionLike}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&reaction).Error; err != nil {
				return err
			}
			result.Action = models.ReactionAdded
		}

		return tx.Model(&models.Reaction{}).Where("post_id = ?", postID).Count(&result.Count).Error
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}
