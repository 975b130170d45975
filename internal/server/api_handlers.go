package server

import (
	"climateforum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// APIListPosts returns post summaries, optionally filtered by ?category=.
func (s *Server) APIListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext(), c.Query("category"))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// APIGetPost returns a post with its comments.
func (s *Server) APIGetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	page, err := s.postService.GetPostPage(c.UserContext(), postID, viewerID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"post":     page.Post,
		"comments": page.Comments,
	})
}
