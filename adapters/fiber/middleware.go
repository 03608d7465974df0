package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/harborview/clubhouse/core"
)

const sessionLocal = "sessionData"

// extractToken pulls the session token from the request. The Authorization
// header (Bearer) wins over the cookie so API clients can override a stale
// browser cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies(SessionCookie)
}

// requireAuth resolves the session and stores it in Locals for downstream
// handlers. Requests without a valid session are rejected with 401.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	data, err := a.gate.RequireAuth(c.Context(), extractToken(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Locals(sessionLocal, data)
	return c.Next()
}

// requireAdmin is requireAuth plus the admin capability check. Authenticated
// non-admins get 403.
func (a *Adapter) requireAdmin(c fiber.Ctx) error {
	data, err := a.gate.RequireAdmin(c.Context(), extractToken(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Locals(sessionLocal, data)
	return c.Next()
}

// currentSession retrieves the session stashed by requireAuth/requireAdmin.
func currentSession(c fiber.Ctx) *core.SessionData {
	data, _ := c.Locals(sessionLocal).(*core.SessionData)
	return data
}
