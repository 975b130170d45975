package server

import (
	"fmt"

	"climateforum/internal/middleware"
	"climateforum/internal/models"
	"climateforum/internal/session"
	"climateforum/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// signupFormView carries the non-secret fields back into a re-rendered form.
type signupFormView struct {
	Username string
	Email    string
}

// SignupPage renders the registration form.
func (s *Server) SignupPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "signup", fiber.Map{
		"Title": "Sign up",
		"Form":  signupFormView{},
	})
}

// Signup handles registration. It never logs the new user in.
func (s *Server) Signup(c *fiber.Ctx) error {
	form := validation.SignupForm{
		Username:        c.FormValue("username"),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	}

	if _, err := s.authService.Register(c.UserContext(), form); err != nil {
		appErr, ok := models.AsAppError(err)
		if !ok || models.StatusFor(appErr) >= fiber.StatusInternalServerError {
			return err
		}
		form = form.Normalize()
		return s.render(c, models.StatusFor(appErr), "signup", fiber.Map{
			"Title": "Sign up",
			"Form":  signupFormView{Username: form.Username, Email: form.Email},
		}, errorFlash(appErr.Message))
	}

	return s.redirectWithFlash(c, "/login", session.FlashSuccess, "Account created successfully! Please log in.")
}

// LoginPage renders the login form.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "login", fiber.Map{
		"Title":    "Log in",
		"Username": "",
	})
}

// Login authenticates the form credentials and starts a fresh session.
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := s.authService.Authenticate(c.UserContext(), username, password)
	if err != nil {
		appErr, ok := models.AsAppError(err)
		if !ok || models.StatusFor(appErr) >= fiber.StatusInternalServerError {
			return err
		}
		return s.render(c, models.StatusFor(appErr), "login", fiber.Map{
			"Title":    "Log in",
			"Username": username,
		}, errorFlash(appErr.Message))
	}

	id := middleware.Identity{UserID: user.ID, Username: user.Username, IsModerator: user.IsModerator}
	welcome := &session.Flash{Category: session.FlashSuccess, Message: fmt.Sprintf("Welcome back, %s!", user.Username)}
	if err := s.sessions.Login(c, id, welcome); err != nil {
		return err
	}
	return c.Redirect("/forum")
}

// Logout ends the session.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Logout(c, &session.Flash{Category: session.FlashInfo, Message: "You have been logged out."}); err != nil {
		return err
	}
	return c.Redirect("/")
}

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// IssueToken exchanges credentials for a Bearer token for the JSON API.
func (s *Server) IssueToken(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}

	token, err := middleware.GenerateToken(s.config.SecretKey, middleware.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		IsModerator: user.IsModerator,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(middleware.TokenTTL.Seconds()),
	})
}
