package server

import (
	"fmt"
	"net/url"
	"testing"

	"climateforum/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportPost(t *testing.T) {
	_, app, db := setupTestServer(t)
	b := newBrowser(t, app)
	b.signupAndLogin("alice")
	postID := createPostVia(t, b, db, "Heatwaves", "Reportable")

	p := b.post(postURL(postID)+"/report", url.Values{"reason": {""}})
	require.Equal(t, fiber.StatusFound, p.Status)
	assert.Equal(t, postURL(postID), p.Location)
	assert.Contains(t, b.get(postURL(postID)).Body, "Please select a reason for reporting.")

	p = b.post(postURL(postID)+"/report", url.Values{"reason": {"spam"}, "description": {"Selling fans"}})
	require.Equal(t, fiber.StatusFound, p.Status)
	assert.Equal(t, postURL(postID), p.Location)
	assert.Contains(t, b.get(postURL(postID)).Body, "Thank you for reporting. Our moderators will review this content.")

	var reports []models.Report
	require.NoError(t, db.Find(&reports).Error)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].PostID)
	assert.Equal(t, postID, *reports[0].PostID)
	assert.Nil(t, reports[0].CommentID)
	assert.Equal(t, models.ReportStatusPending, reports[0].Status)
	assert.Equal(t, "Selling fans", reports[0].Description)
}

func TestReportComment(t *testing.T) {
	_, app, db := setupTestServer(t)
	b := newBrowser(t, app)
	b.signupAndLogin("alice")
	postID := createPostVia(t, b, db, "Heatwaves", "With comment")
	otherID := createPostVia(t, b, db, "Flooding", "Other post")

	p := b.post(postURL(postID)+"/comment", url.Values{"content": {"rude words"}})
	require.Equal(t, fiber.StatusFound, p.Status)
	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)

	p = b.post(fmt.Sprintf("%s/comment/%d/report", postURL(otherID), comment.ID), url.Values{"reason": {"harassment"}})
	require.Equal(t, fiber.StatusFound, p.Status)
	assert.Contains(t, b.get(postURL(otherID)).Body, "Comment not found.")

	p = b.post(fmt.Sprintf("%s/comment/%d/report", postURL(postID), comment.ID), url.Values{"reason": {"harassment"}})
	require.Equal(t, fiber.StatusFound, p.Status)
	assert.Equal(t, postURL(postID), p.Location)

	var report models.Report
	require.NoError(t, db.First(&report).Error)
	require.NotNil(t, report.CommentID)
	assert.Equal(t, comment.ID, *report.CommentID)
	assert.Nil(t, report.PostID)
}
