package service

import (
	"context"
	"log/slog"
	"strings"

	"climateforum/internal/middleware"
	"climateforum/internal/models"
	"climateforum/internal/observability"
	"climateforum/internal/repository"

	vd "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
)

// ReportService files and resolves moderation reports.
type ReportService struct {
	reportRepo  repository.ReportRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

type ReportInput struct {
	ReporterID  uint
	PostID      uint
	CommentID   uint // zero reports the post itself
	Reason      string
	Description string
}

func NewReportService(
	reportRepo repository.ReportRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// ReportPost files a pending report against a post.
func (s *ReportService) ReportPost(ctx context.Context, in ReportInput) (*models.Report, error) {
	exists, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Post")
	}

	postID := in.PostID
	return s.file(ctx, &models.Report{
		PostID:      &postID,
		ReporterID:  in.ReporterID,
		Reason:      strings.TrimSpace(in.Reason),
		Description: strings.TrimSpace(in.Description),
	}, "post")
}

// ReportComment files a pending report against a comment of the given post.
func (s *ReportService) ReportComment(ctx context.Context, in ReportInput) (*models.Report, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != in.PostID {
		return nil, models.NewNotFoundError("Comment")
	}

	commentID := in.CommentID
	return s.file(ctx, &models.Report{
		CommentID:   &commentID,
		ReporterID:  in.ReporterID,
		Reason:      strings.TrimSpace(in.Reason),
		Description: strings.TrimSpace(in.Description),
	}, "comment")
}

func (s *ReportService) file(ctx context.Context, report *models.Report, target string) (*models.Report, error) {
	report.Status = models.ReportStatusPending
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	observability.ReportsFiled.WithLabelValues(target).Inc()
	middleware.Logger.InfoContext(ctx, "report filed",
		slog.Uint64("report_id", uint64(report.ID)),
		slog.String("target", target),
		slog.String("reason", report.Reason),
	)
	return report, nil
}

// ListReports returns reports with the given status, or all when status is empty.
func (s *ReportService) ListReports(ctx context.Context, status string) ([]models.Report, error) {
	if status != "" {
		if err := vd.Validate(status, vd.In(lo.ToAnySlice(models.ReportStatuses)...)); err != nil {
			return nil, models.NewValidationError("unknown report status: " + status)
		}
	}
	return s.reportRepo.List(ctx, status)
}

// ResolveReport closes a report as reviewed or dismissed.
func (s *ReportService) ResolveReport(ctx context.Context, id uint, status string) error {
	if status != models.ReportStatusReviewed && status != models.ReportStatusDismissed {
		return models.NewValidationError("status must be reviewed or dismissed")
	}
	return s.reportRepo.UpdateStatus(ctx, id, status)
}
