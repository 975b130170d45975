package server

import (
	"log/slog"

	"climateforum/internal/middleware"
	"climateforum/internal/models"
	"climateforum/internal/service"
	"climateforum/internal/session"

	"github.com/gofiber/fiber/v2"
)

type postFormView struct {
	Category string
	Title    string
	Content  string
}

// ForumList renders the post listing, optionally filtered by ?category=.
func (s *Server) ForumList(c *fiber.Ctx) error {
	category := c.Query("category")
	posts, err := s.postService.ListPosts(c.UserContext(), category)
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "forum/list", fiber.Map{
		"Title":            "Forum",
		"Posts":            posts,
		"Categories":       models.Categories,
		"SelectedCategory": service.NormalizeCategory(category),
	})
}

// CreatePostPage renders the new post form.
func (s *Server) CreatePostPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "forum/create", fiber.Map{
		"Title":      "New post",
		"Categories": models.Categories,
		"Form":       postFormView{},
	})
}

// CreatePost stores a new post for the signed-in user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{
		UserID:   viewerID(c),
		Category: c.FormValue("category"),
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
	}

	if _, err := s.postService.CreatePost(c.UserContext(), in); err != nil {
		if !models.IsCode(err, models.CodeValidation) {
			return err
		}
		appErr, _ := models.AsAppError(err)
		return s.render(c, fiber.StatusBadRequest, "forum/create", fiber.Map{
			"Title":      "New post",
			"Categories": models.Categories,
			"Form":       postFormView{Category: in.Category, Title: in.Title, Content: in.Content},
		}, errorFlash(appErr.Message))
	}

	return s.redirectWithFlash(c, "/forum", session.FlashSuccess, "Post created successfully!")
}

// PostDetail renders a post with its comments.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	page, err := s.postService.GetPostPage(c.UserContext(), postID, viewerID(c))
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return s.redirectWithFlash(c, "/forum", session.FlashError, msgPostNotFound)
		}
		return err
	}

	return s.render(c, fiber.StatusOK, "forum/post", fiber.Map{
		"Title":         page.Post.Title,
		"Post":          page.Post,
		"Comments":      page.Comments,
		"ReportReasons": models.ReportReasons,
	})
}

// AddComment appends a comment to a post.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	_, err = s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  viewerID(c),
		PostID:  postID,
		Content: c.FormValue("content"),
	})
	switch {
	case err == nil:
		return s.redirectWithFlash(c, postURL(postID), session.FlashSuccess, "Comment added successfully!")
	case models.IsCode(err, models.CodeValidation):
		appErr, _ := models.AsAppError(err)
		return s.redirectWithFlash(c, postURL(postID), session.FlashError, appErr.Message)
	case models.IsCode(err, models.CodeNotFound):
		return s.redirectWithFlash(c, "/forum", session.FlashError, msgPostNotFound)
	default:
		return err
	}
}

// ToggleReaction flips the caller's like on a post and returns the new count as JSON.
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": msgPostNotFound})
	}

	result, err := s.reactionService.Toggle(c.UserContext(), postID, viewerID(c))
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": msgPostNotFound})
		}
		middleware.Logger.ErrorContext(c.UserContext(), "reaction toggle failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Something went wrong. Please try again.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"action":  result.Action,
		"count":   result.Count,
	})
}
