package middleware

import (
	"log"
	"net/url"

	"blogo/internal/models"
	"blogo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie that carries the signed session token.
const SessionCookie = "session"

// LoadUser resolves the session cookie to a user record and stores it in the
// request context. It never blocks the request; pages that render differently
// for authenticated users read the result via CurrentUser.
func LoadUser(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token != "" {
			user, err := authService.UserFromToken(token)
			if err != nil {
				log.Printf("Session token rejected: %v", err)
			} else {
				c.Locals("user", user)
			}
		}
		return c.Next()
	}
}

// AuthRequired guards a route: unauthenticated requests are redirected to the
// login page with a next parameter pointing back at the requested URL.
// Must run after LoadUser.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Redirect("/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user for this request, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals("user").(*models.User); ok {
		return user
	}
	return nil
}
