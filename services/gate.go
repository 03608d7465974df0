package services

import (
	"context"
	"errors"

	"github.com/harborview/clubhouse/core"
)

// Gate resolves inbound session tokens to accounts and enforces the admin
// capability check. RequireAuth and RequireAdmin are the only authorization
// primitives handlers may use; no handler queries the session table directly.
type Gate struct {
	sessions *SessionManager
	members  core.MemberStorage
}

func NewGate(sessions *SessionManager, members core.MemberStorage) *Gate {
	return &Gate{sessions: sessions, members: members}
}

// Resolve returns the session and owning member for token, or (nil, nil)
// when there is no valid session. Callers that treat auth as optional use
// this directly.
//
// Deactivation does not revoke live sessions: a deactivated member with a
// valid token still resolves. Only fresh logins are blocked.
func (g *Gate) Resolve(ctx context.Context, token string) (*core.SessionData, error) {
	session, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	member, err := g.members.GetMemberByID(ctx, session.MemberID)
	if err != nil {
		// The owning account is gone; treat the orphaned session as absent.
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &core.SessionData{Member: member, Session: session}, nil
}

// RequireAuth resolves the session or fails with ErrUnauthorized.
func (g *Gate) RequireAuth(ctx context.Context, token string) (*core.SessionData, error) {
	data, err := g.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, core.ErrUnauthorized
	}
	return data, nil
}

// RequireAdmin resolves the session and asserts the admin flag. The check can
// never pass for a member whose admin flag is false, regardless of session
// validity.
func (g *Gate) RequireAdmin(ctx context.Context, token string) (*core.SessionData, error) {
	data, err := g.RequireAuth(ctx, token)
	if err != nil {
		return nil, err
	}
	if !data.Member.IsAdmin {
		return nil, core.ErrForbidden
	}
	return data, nil
}
