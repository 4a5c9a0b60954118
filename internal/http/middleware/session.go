package middleware

import (
	"github.com/gofiber/fiber/v2"

	"legaldesk/internal/session"
)

const (
	// SessionIDHeader carries the client's session id in both directions.
	SessionIDHeader = "X-Session-ID"
	// SessionIDLocalKey stores the resolved session id in Fiber's context locals.
	SessionIDLocalKey = "session_id"
	// SessionLocalKey stores the *session.Store in Fiber's context locals.
	SessionLocalKey = "session"
)

// Session resolves X-Session-ID to a session store, creating one when the
// header is missing, malformed or refers to an evicted session. The effective
// id is echoed back in the response header.
func Session(mgr *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, st := mgr.GetOrCreate(c.Get(SessionIDHeader))
		c.Locals(SessionIDLocalKey, id)
		c.Locals(SessionLocalKey, st)
		c.Set(SessionIDHeader, id)
		return c.Next()
	}
}

// StoreFromCtx returns the session store attached by Session.
func StoreFromCtx(c *fiber.Ctx) (*session.Store, bool) {
	st, ok := c.Locals(SessionLocalKey).(*session.Store)
	return st, ok && st != nil
}
