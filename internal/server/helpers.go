package server

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"climateforum/internal/middleware"
	"climateforum/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Notices shown as flashes by more than one handler.
const (
	msgLoginRequired = "Please log in to access this page."
	msgPostNotFound  = "Post not found."
)

// parseID extracts a route parameter as a positive uint. Anything else is a 404.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// viewerID returns the acting account id, or 0 for anonymous requests.
func viewerID(c *fiber.Ctx) uint {
	if id, ok := middleware.CurrentIdentity(c); ok {
		return id.UserID
	}
	return 0
}

func postURL(id uint) string {
	return fmt.Sprintf("/forum/post/%d", id)
}

// render draws a page inside the main layout. Flashes queued on the session are
// shown first, then any extra flashes for this response only.
func (s *Server) render(c *fiber.Ctx, status int, name string, data fiber.Map, extra ...session.Flash) error {
	flashes, err := s.sessions.PopFlashes(c)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to read flashes", slog.String("error", err.Error()))
	}
	flashes = append(flashes, extra...)

	if data == nil {
		data = fiber.Map{}
	}
	data["Flashes"] = flashes
	if id, ok := middleware.CurrentIdentity(c); ok {
		data["Identity"] = id
	} else {
		data["Identity"] = nil
	}
	return c.Status(status).Render(name, data)
}

// redirectWithFlash queues a flash for the next page and redirects there.
func (s *Server) redirectWithFlash(c *fiber.Ctx, to, category, message string) error {
	if err := s.sessions.AddFlash(c, category, message); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to store flash", slog.String("error", err.Error()))
	}
	return c.Redirect(to)
}

func errorFlash(message string) session.Flash {
	return session.Flash{Category: session.FlashError, Message: message}
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006 at 15:04")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
