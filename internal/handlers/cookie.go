package handlers

import (
	"time"

	"campusconnect/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieMaxAge is the browser lifetime of the session cookie. It
// outlives the token it carries; an expired token inside a live cookie is
// answered with 401 by /verify.
const SessionCookieMaxAge = 7 * 24 * time.Hour

// CookiePolicy decides the attributes of the session cookie.
type CookiePolicy struct {
	// CrossSite issues Secure, SameSite=None cookies for cross-origin frontends.
	CrossSite bool
}

func (p CookiePolicy) sameSite() string {
	if p.CrossSite {
		return fiber.CookieSameSiteNoneMode
	}
	return fiber.CookieSameSiteLaxMode
}

// Session returns the cookie carrying token.
func (p CookiePolicy) Session(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionCookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   p.CrossSite,
		SameSite: p.sameSite(),
	}
}

// Cleared returns a cookie that removes the session cookie, with the same
// attributes it was set with.
func (p CookiePolicy) Cleared() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   p.CrossSite,
		SameSite: p.sameSite(),
	}
}
