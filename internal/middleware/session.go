package middleware

import (
	"log"

	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	// TokenCookie is the name of the session cookie.
	TokenCookie = "token"
	// LocalsUserID is the c.Locals key holding the authenticated user id.
	LocalsUserID = "user_id"
)

// TokenVerifier resolves a session token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// SessionRequired is a Fiber middleware that admits only requests carrying a
// valid session cookie. It resolves the token to a user id and never loads the user.
func SessionRequired(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(TokenCookie)
		if token == "" {
			return services.NewNotAuthenticatedError()
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			log.Printf("Session token rejected for %s %s: %v", c.Method(), c.Path(), err)
			return services.NewInvalidTokenError(err)
		}

		c.Locals(LocalsUserID, userID)
		return c.Next()
	}
}

// UserID returns the user id stored by SessionRequired, or "" outside a session.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsUserID).(string)
	return id
}
