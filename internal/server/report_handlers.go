package server

import (
	"climateforum/internal/models"
	"climateforum/internal/service"
	"climateforum/internal/session"

	"github.com/gofiber/fiber/v2"
)

const msgReportThanks = "Thank you for reporting. Our moderators will review this content."

// ReportPost files a moderation report against a post.
func (s *Server) ReportPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	_, err = s.reportService.ReportPost(c.UserContext(), service.ReportInput{
		ReporterID:  viewerID(c),
		PostID:      postID,
		Reason:      c.FormValue("reason"),
		Description: c.FormValue("description"),
	})
	return s.afterReport(c, postID, err)
}

// ReportComment files a moderation report against a comment of the post.
func (s *Server) ReportComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	commentID, err := parseID(c, "commentID")
	if err != nil {
		return err
	}

	_, err = s.reportService.ReportComment(c.UserContext(), service.ReportInput{
		ReporterID:  viewerID(c),
		PostID:      postID,
		CommentID:   commentID,
		Reason:      c.FormValue("reason"),
		Description: c.FormValue("description"),
	})
	return s.afterReport(c, postID, err)
}

func (s *Server) afterReport(c *fiber.Ctx, postID uint, err error) error {
	if err == nil {
		return s.redirectWithFlash(c, postURL(postID), session.FlashSuccess, msgReportThanks)
	}

	appErr, ok := models.AsAppError(err)
	if !ok {
		return err
	}
	switch appErr.Code {
	case models.CodeValidation:
		return s.redirectWithFlash(c, postURL(postID), session.FlashError, appErr.Message)
	case models.CodeNotFound:
		if appErr.Message == msgPostNotFound {
			return s.redirectWithFlash(c, "/forum", session.FlashError, msgPostNotFound)
		}
		return s.redirectWithFlash(c, postURL(postID), session.FlashError, appErr.Message)
	default:
		return err
	}
}
