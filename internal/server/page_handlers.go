package server

import (
	"log/slog"

	"climateforum/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

const recentPostsOnIndex = 5

// Index renders the home page with a teaser of the newest posts.
func (s *Server) Index(c *fiber.Ctx) error {
	posts, err := s.postService.RecentPosts(c.UserContext(), recentPostsOnIndex)
	if err != nil {
		// The home page still renders without the teaser.
		middleware.Logger.ErrorContext(c.UserContext(), "failed to load recent posts", slog.String("error", err.Error()))
	}
	return s.render(c, fiber.StatusOK, "index", fiber.Map{
		"Title": "Home",
		"Posts": posts,
	})
}

func (s *Server) staticPage(view, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return s.render(c, fiber.StatusOK, view, fiber.Map{"Title": title})
	}
}
