package handlers

import (
	"errors"

	"campusconnect/internal/metrics"
	"campusconnect/internal/middleware"
	"campusconnect/internal/models"
	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for the identity flow.
type AuthHandler struct {
	authService *services.AuthService
	cookies     CookiePolicy
	metrics     *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler. m may be nil.
func NewAuthHandler(authService *services.AuthService, cookies CookiePolicy, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		metrics:     m,
	}
}

// RegisterRoutes registers the authentication routes. session guards /verify.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, session fiber.Handler) {
	router.Post("/signup", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/verify", session, h.HandleVerify)
	router.Post("/logout", h.HandleLogout)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := parseBody(c, &req); err != nil {
		h.record("register", err)
		return err
	}

	user, token, err := h.authService.Register(c.UserContext(), req)
	h.record("register", err)
	if err != nil {
		return err
	}

	c.Cookie(h.cookies.Session(token))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Signup successful.",
		"user":    models.ProfileOf(user),
	})
}

// HandleLogin handles user login and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := parseBody(c, &req); err != nil {
		h.record("login", err)
		return err
	}

	user, token, err := h.authService.Login(c.UserContext(), req)
	h.record("login", err)
	if err != nil {
		return err
	}

	c.Cookie(h.cookies.Session(token))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"user":    models.SummaryOf(user),
	})
}

// HandleVerify returns the full profile of the session user.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	user, err := h.authService.Verify(c.UserContext(), middleware.UserID(c))
	h.record("verify", err)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    models.ProfileOf(user),
	})
}

// HandleLogout clears the session cookie. Issued tokens stay valid until they expire.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(h.cookies.Cleared())
	h.record("logout", nil)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

func (h *AuthHandler) record(operation string, err error) {
	if err == nil {
		h.metrics.RecordAuth(operation, "success")
		return
	}
	var domainErr *services.Error
	if errors.As(err, &domainErr) {
		h.metrics.RecordAuth(operation, string(domainErr.Kind))
		return
	}
	h.metrics.RecordAuth(operation, string(services.KindInternal))
}
