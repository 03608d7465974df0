package core

import "time"

// Member is a registered club member.
//
// This is the "identity" - who someone is. The password hash lives on the
// member directly; there is exactly one credential per member.
type Member struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	IsAdmin      bool      `json:"isAdmin"`
	IsActive     bool      `json:"isActive"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// Session is a server-tracked, time-bounded bearer credential issued at login.
type Session struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"memberId"`
	Token     string    `json:"-"` // Never expose in JSON (security!)
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionData combines member and session info.
// The model returned to authenticated handlers.
type SessionData struct {
	Member  *Member  `json:"member"`
	Session *Session `json:"session"`
}

// PasswordReset is an outstanding password-reset token. At most one live
// reset exists per member; a new request overwrites the prior one.
type PasswordReset struct {
	MemberID  string    `json:"memberId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is a calendar entry members can RSVP to.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	Location  string    `json:"location"`
	StartsAt  time.Time `json:"startsAt"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// RSVP marks a member as attending an event.
type RSVP struct {
	EventID   string    `json:"eventId"`
	MemberID  string    `json:"memberId"`
	CreatedAt time.Time `json:"createdAt"`
}
