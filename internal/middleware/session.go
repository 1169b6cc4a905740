package middleware

import (
	"time"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// CartCookie carries the anonymous cart session id.
	CartCookie = "cart_session"
	// CartHeader lets API clients without a cookie jar pass the session id.
	CartHeader = "X-Cart-Session"

	localSession  = "cart_session"
	cartCookieTTL = 30 * 24 * time.Hour
)

// CartSession resolves the shopper's session id from the header or cookie, issuing a new one
// when neither holds a usable value. The id is echoed back in both.
func CartSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := models.SessionID(c.Get(CartHeader))
		if !sid.Valid() {
			sid = models.SessionID(c.Cookies(CartCookie))
		}
		if !sid.Valid() {
			sid = models.SessionID(uuid.NewString())
		}

		c.Cookie(&fiber.Cookie{
			Name:     CartCookie,
			Value:    sid.String(),
			Path:     "/",
			Expires:  time.Now().Add(cartCookieTTL),
			HTTPOnly: true,
			SameSite: "Lax",
		})
		c.Set(CartHeader, sid.String())
		c.Locals(localSession, sid)
		return c.Next()
	}
}

// SessionIDFrom returns the id resolved by CartSession.
func SessionIDFrom(c *fiber.Ctx) models.SessionID {
	sid, _ := c.Locals(localSession).(models.SessionID)
	return sid
}
