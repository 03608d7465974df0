package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/harborview/clubhouse/core"
)

func (a *Adapter) CreateSession(ctx context.Context, s *core.Session) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO sessions (id, member_id, token, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.MemberID, s.Token, s.ExpiresAt, s.CreatedAt,
	)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("member_id", s.MemberID).
			Wrap(err)
	}
	return nil
}

// GetLiveSession resolves a token. The expiry predicate is part of the query
// itself, so an expired row can never be returned as valid.
func (a *Adapter) GetLiveSession(ctx context.Context, token string, now time.Time) (*core.Session, error) {
	row := a.db.QueryRow(ctx,
		`SELECT id, member_id, token, expires_at, created_at
		 FROM sessions
		 WHERE token = $1 AND expires_at > $2`,
		token, now,
	)

	s := &core.Session{}
	err := row.Scan(&s.ID, &s.MemberID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, oops.Code("SESSION_GET_FAILED").
			With("operation", "get live session").
			Wrap(err)
	}
	return s, nil
}

func (a *Adapter) DeleteSessionByToken(ctx context.Context, token string) error {
	_, err := a.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return oops.Code("SESSION_DELETE_FAILED").
			With("operation", "delete session by token").
			Wrap(err)
	}
	// No ErrNotFound when nothing was deleted - destroy is idempotent.
	return nil
}

func (a *Adapter) DeleteMemberSessions(ctx context.Context, memberID string) (int64, error) {
	result, err := a.db.Exec(ctx, `DELETE FROM sessions WHERE member_id = $1`, memberID)
	if err != nil {
		return 0, oops.Code("SESSION_DELETE_FAILED").
			With("operation", "delete sessions by member").
			With("member_id", memberID).
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := a.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}
