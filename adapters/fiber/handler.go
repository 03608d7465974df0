package fiber

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/harborview/clubhouse/core"
	"github.com/harborview/clubhouse/services"
)

// --- Auth ---

func (a *Adapter) signUp(c fiber.Ctx) error {
	var input services.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.auth.SignUp(c.Context(), input)
	if err != nil {
		return handleServiceError(c, err)
	}

	a.setSessionCookie(c, result.Session)
	return c.Status(http.StatusCreated).JSON(result)
}

type signInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *Adapter) signIn(c fiber.Ctx) error {
	var input signInInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.auth.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		return handleServiceError(c, err)
	}

	a.setSessionCookie(c, result.Session)
	return c.Status(http.StatusOK).JSON(result)
}

// signOut destroys the current session. Always succeeds, even with no
// session, so a stale client can clear its cookie.
func (a *Adapter) signOut(c fiber.Ctx) error {
	if token := extractToken(c); token != "" {
		if err := a.auth.Logout(c.Context(), token); err != nil {
			return handleServiceError(c, err)
		}
	}

	a.clearSessionCookie(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "signed out",
	})
}

func (a *Adapter) getSession(c fiber.Ctx) error {
	data := currentSession(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"member":  data.Member,
		"session": data.Session,
	})
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (a *Adapter) changePassword(c fiber.Ctx) error {
	var input changePasswordInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	data := currentSession(c)
	if err := a.auth.ChangePassword(c.Context(), data.Member.ID, input.CurrentPassword, input.NewPassword); err != nil {
		return handleServiceError(c, err)
	}

	// Every session is gone now, including the one that made this request.
	a.clearSessionCookie(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "password changed, please sign in again",
	})
}

// --- Password reset ---

type resetRequestInput struct {
	Email string `json:"email"`
}

// requestReset always reports success so responses cannot be used to probe
// for registered emails.
func (a *Adapter) requestReset(c fiber.Ctx) error {
	var input resetRequestInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := a.resets.RequestReset(c.Context(), input.Email); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "if that email is registered, a reset link has been sent",
	})
}

type resetCompleteInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (a *Adapter) completeReset(c fiber.Ctx) error {
	var input resetCompleteInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := a.resets.CompleteReset(c.Context(), input.Token, input.NewPassword); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "password reset, please sign in",
	})
}

// --- Events ---

func (a *Adapter) listEvents(c fiber.Ctx) error {
	events, err := a.events.ListUpcoming(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"events": events,
	})
}

func (a *Adapter) rsvp(c fiber.Ctx) error {
	data := currentSession(c)
	if err := a.events.RSVP(c.Context(), c.Params("id"), data.Member.ID); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "see you there",
	})
}

func (a *Adapter) cancelRSVP(c fiber.Ctx) error {
	data := currentSession(c)
	if err := a.events.CancelRSVP(c.Context(), c.Params("id"), data.Member.ID); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "rsvp cancelled",
	})
}

func (a *Adapter) listAttendees(c fiber.Ctx) error {
	rsvps, err := a.events.ListAttendees(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"rsvps": rsvps,
	})
}

// --- Admin ---

func (a *Adapter) createEvent(c fiber.Ctx) error {
	var input services.CreateEventInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	data := currentSession(c)
	event, err := a.events.CreateEvent(c.Context(), input, data.Member.ID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(event)
}

func (a *Adapter) deleteEvent(c fiber.Ctx) error {
	if err := a.events.DeleteEvent(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "event deleted",
	})
}

func (a *Adapter) listMembers(c fiber.Ctx) error {
	members, err := a.admin.ListMembers(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"members": members,
	})
}

func (a *Adapter) deactivateMember(c fiber.Ctx) error {
	return a.setMemberActive(c, false)
}

func (a *Adapter) reactivateMember(c fiber.Ctx) error {
	return a.setMemberActive(c, true)
}

func (a *Adapter) setMemberActive(c fiber.Ctx, active bool) error {
	if err := a.admin.SetMemberActive(c.Context(), c.Params("id"), active); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"id":       c.Params("id"),
		"isActive": active,
	})
}

func (a *Adapter) revokeMemberSessions(c fiber.Ctx) error {
	count, err := a.admin.RevokeMemberSessions(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"revoked": count,
	})
}

func (a *Adapter) adminInitiateReset(c fiber.Ctx) error {
	token, expiresAt, err := a.resets.AdminInitiateReset(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"token":     token,
		"expiresAt": expiresAt,
	})
}

// --- Cookies ---

func (a *Adapter) setSessionCookie(c fiber.Ctx, session *core.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		Path:     "/",
		HTTPOnly: true,
		Secure:   a.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (a *Adapter) clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		HTTPOnly: true,
		Secure:   a.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
