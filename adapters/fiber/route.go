// Package fiber exposes the clubhouse services over HTTP.
package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/harborview/clubhouse/services"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "club_session"

// Adapter wires the service layer to a fiber app. Handlers never touch
// storage directly; authorization always goes through the gate.
type Adapter struct {
	auth   *services.AuthService
	resets *services.PasswordResetService
	events *services.EventService
	admin  *services.AdminService
	gate   *services.Gate

	// cookieSecure should be true everywhere except local development.
	cookieSecure bool
}

type Options struct {
	CookieSecure bool
}

func New(
	auth *services.AuthService,
	resets *services.PasswordResetService,
	events *services.EventService,
	admin *services.AdminService,
	gate *services.Gate,
	opts Options,
) *Adapter {
	return &Adapter{
		auth:         auth,
		resets:       resets,
		events:       events,
		admin:        admin,
		gate:         gate,
		cookieSecure: opts.CookieSecure,
	}
}

func (a *Adapter) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/sign-up", a.signUp)
	auth.Post("/sign-in", a.signIn)
	auth.Post("/sign-out", a.signOut)
	auth.Post("/reset/request", a.requestReset)
	auth.Post("/reset/complete", a.completeReset)

	// Protected routes
	auth.Get("/session", a.requireAuth, a.getSession)
	auth.Post("/change-password", a.requireAuth, a.changePassword)

	// The calendar itself is public; RSVPs and attendee lists are members-only.
	events := api.Group("/events")
	events.Get("/", a.listEvents)
	events.Post("/:id/rsvp", a.requireAuth, a.rsvp)
	events.Delete("/:id/rsvp", a.requireAuth, a.cancelRSVP)
	events.Get("/:id/attendees", a.requireAuth, a.listAttendees)

	// Admin back office
	admin := api.Group("/admin", a.requireAdmin)
	admin.Post("/events", a.createEvent)
	admin.Delete("/events/:id", a.deleteEvent)
	admin.Get("/members", a.listMembers)
	admin.Post("/members/:id/deactivate", a.deactivateMember)
	admin.Post("/members/:id/reactivate", a.reactivateMember)
	admin.Delete("/members/:id/sessions", a.revokeMemberSessions)
	admin.Post("/members/:id/reset", a.adminInitiateReset)
}
