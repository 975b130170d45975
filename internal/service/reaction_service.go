package service

import (
	"context"
	"log/slog"

	"climateforum/internal/middleware"
	"climateforum/internal/models"
	"climateforum/internal/observability"
	"climateforum/internal/repository"
)

type ReactionService struct {
	reactionRepo repository.ReactionRepository
}

func NewReactionService(reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{reactionRepo: reactionRepo}
}

// Toggle flips the user's like on the post and reports the new total.
func (s *ReactionService) Toggle(ctx context.Context, postID, userID uint) (_ *models.ToggleResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "reactions", "Toggle")
	defer func() { observability.EndSpan(span, err) }()

	result, err := s.reactionRepo.Toggle(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	observability.ReactionToggles.WithLabelValues(result.Action).Inc()
	middleware.Logger.DebugContext(ctx, "reaction toggled",
		slog.Uint64("post_id", uint64(postID)),
		slog.String("action", result.Action),
		slog.Int64("count", result.Count),
	)
	return result, nil
}
