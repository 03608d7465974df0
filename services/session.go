package services

import (
	"context"
	"errors"
	"time"

	"github.com/harborview/clubhouse/core"
	"github.com/harborview/clubhouse/pkg/crypto"
)

// SessionManager issues, resolves and revokes session tokens. Once issued, a
// token authenticates its member until expiry or explicit deletion; nothing
// else changes its validity.
type SessionManager struct {
	config  core.SessionConfig
	storage core.SessionStorage
	ids     *crypto.NanoIDGenerator
	now     func() time.Time
}

func NewSessionManager(config core.SessionConfig, storage core.SessionStorage) *SessionManager {
	if config.MaxAge <= 0 {
		config = core.DefaultSessionConfig()
	}
	return &SessionManager{
		config:  config,
		storage: storage,
		ids:     crypto.NewNanoID(),
		now:     time.Now,
	}
}

func (sm *SessionManager) Create(ctx context.Context, memberID string) (*core.Session, error) {
	token, err := crypto.GenerateToken()
	if err != nil {
		return nil, err
	}

	sessionID, err := sm.ids.Generate()
	if err != nil {
		return nil, err
	}

	now := sm.now()
	session := &core.Session{
		ID:        sessionID,
		MemberID:  memberID,
		Token:     token,
		ExpiresAt: now.Add(sm.config.MaxAge),
		CreatedAt: now,
	}

	if err := sm.storage.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Resolve looks up a token. It returns (nil, nil) for a missing, expired or
// empty token; "no session" is a state, not an error. Expiry filtering
// happens inside the storage query.
func (sm *SessionManager) Resolve(ctx context.Context, token string) (*core.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := sm.storage.GetLiveSession(ctx, token, sm.now())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return session, nil
}

// Destroy deletes the session for token. Idempotent: destroying an absent
// token is not an error.
func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return sm.storage.DeleteSessionByToken(ctx, token)
}

// DestroyAllForMember deletes every session for the member, forcing
// re-authentication everywhere. Used after password change or reset.
func (sm *SessionManager) DestroyAllForMember(ctx context.Context, memberID string) (int64, error) {
	if memberID == "" {
		return 0, core.ErrNotFound
	}
	return sm.storage.DeleteMemberSessions(ctx, memberID)
}

// SweepExpired garbage-collects expired rows. Correctness never depends on
// this: Resolve filters expiry at read time.
func (sm *SessionManager) SweepExpired(ctx context.Context) (int64, error) {
	return sm.storage.DeleteExpiredSessions(ctx, sm.now())
}
