package core

import (
	"context"
	"time"
)

type MemberStorage interface {
	CreateMember(ctx context.Context, m *Member) error

	// Query methods. Email lookup is case-insensitive.
	GetMemberByID(ctx context.Context, id string) (*Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*Member, error)
	ListMembers(ctx context.Context) ([]*Member, error)

	// Updates
	UpdatePasswordHash(ctx context.Context, memberID, hash string) error
	SetMemberActive(ctx context.Context, memberID string, active bool) error
}

type SessionStorage interface {
	CreateSession(ctx context.Context, s *Session) error

	// GetLiveSession resolves a token to its session. Expiry filtering
	// happens inside the query: rows with expires_at <= now are never
	// returned, so there is no read-then-expire race.
	GetLiveSession(ctx context.Context, token string, now time.Time) (*Session, error)

	// Delete methods. DeleteSessionByToken is idempotent.
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteMemberSessions(ctx context.Context, memberID string) (int64, error)

	// Cleanup. Purely a storage-reclamation optimization.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type ResetStorage interface {
	// UpsertReset stores a reset token keyed by member, overwriting any
	// prior token so concurrent requests converge on one live row.
	UpsertReset(ctx context.Context, r *PasswordReset) error

	GetResetByToken(ctx context.Context, token string) (*PasswordReset, error)

	DeleteResetByMember(ctx context.Context, memberID string) error

	// Cleanup
	DeleteExpiredResets(ctx context.Context, now time.Time) (int64, error)
}

type EventStorage interface {
	CreateEvent(ctx context.Context, e *Event) error

	GetEventByID(ctx context.Context, id string) (*Event, error)
	ListUpcomingEvents(ctx context.Context, now time.Time) ([]*Event, error)

	DeleteEvent(ctx context.Context, id string) error

	// RSVPs
	UpsertRSVP(ctx context.Context, r *RSVP) error
	DeleteRSVP(ctx context.Context, eventID, memberID string) error
	ListEventRSVPs(ctx context.Context, eventID string) ([]*RSVP, error)
}

type Storage interface {
	MemberStorage
	SessionStorage
	ResetStorage
	EventStorage
}
