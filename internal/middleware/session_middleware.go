package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the opaque cart session token.
const SessionCookie = "cart_session"

// SessionKey is the Locals key under which the session ID is stored.
const SessionKey = "session_id"

// CartSession issues an opaque session token on first contact and
// propagates it on every request. All cart and checkout operations are
// scoped to this token; there is no cross-session visibility.
func CartSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookie)
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Expires:  time.Now().Add(30 * 24 * time.Hour),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(SessionKey, sessionID)
		return c.Next()
	}
}

// SessionID returns the request's cart session token.
func SessionID(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(SessionKey).(string)
	return sessionID
}
