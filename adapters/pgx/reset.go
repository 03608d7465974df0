package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/harborview/clubhouse/core"
)

// UpsertReset keeps at most one live reset row per member. The upsert makes
// concurrent reset requests for the same account converge on one token
// instead of racing two inserts.
func (a *Adapter) UpsertReset(ctx context.Context, r *core.PasswordReset) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO password_resets (member_id, token, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (member_id) DO UPDATE
		 SET token = EXCLUDED.token,
		     expires_at = EXCLUDED.expires_at,
		     created_at = EXCLUDED.created_at`,
		r.MemberID, r.Token, r.ExpiresAt, r.CreatedAt,
	)
	if err != nil {
		return oops.Code("RESET_UPSERT_FAILED").
			With("operation", "upsert password reset").
			With("member_id", r.MemberID).
			Wrap(err)
	}
	return nil
}

func (a *Adapter) GetResetByToken(ctx context.Context, token string) (*core.PasswordReset, error) {
	row := a.db.QueryRow(ctx,
		`SELECT member_id, token, expires_at, created_at
		 FROM password_resets
		 WHERE token = $1`,
		token,
	)

	r := &core.PasswordReset{}
	err := row.Scan(&r.MemberID, &r.Token, &r.ExpiresAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, oops.Code("RESET_GET_FAILED").
			With("operation", "get reset by token").
			Wrap(err)
	}
	return r, nil
}

func (a *Adapter) DeleteResetByMember(ctx context.Context, memberID string) error {
	_, err := a.db.Exec(ctx, `DELETE FROM password_resets WHERE member_id = $1`, memberID)
	if err != nil {
		return oops.Code("RESET_DELETE_FAILED").
			With("operation", "delete reset by member").
			With("member_id", memberID).
			Wrap(err)
	}
	return nil
}

func (a *Adapter) DeleteExpiredResets(ctx context.Context, now time.Time) (int64, error) {
	result, err := a.db.Exec(ctx, `DELETE FROM password_resets WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, oops.Code("RESET_SWEEP_FAILED").
			With("operation", "delete expired resets").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}
