package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/harborview/clubhouse/core"
)

const memberColumns = `id, email, name, password_hash, is_admin, is_active, joined_at`

func (a *Adapter) CreateMember(ctx context.Context, m *core.Member) error {
	query := `INSERT INTO members (id, email, name, password_hash, is_admin, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING joined_at`

	err := a.db.QueryRow(ctx, query,
		m.ID, m.Email, m.Name, m.PasswordHash, m.IsAdmin, m.IsActive,
	).Scan(&m.JoinedAt)
	if err != nil {
		// The unique index on lower(email) enforces case-insensitive
		// uniqueness; surface it as the domain conflict.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return core.ErrEmailTaken
		}
		return oops.Code("MEMBER_CREATE_FAILED").
			With("operation", "insert member").
			Wrap(err)
	}
	return nil
}

func (a *Adapter) GetMemberByID(ctx context.Context, id string) (*core.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	m, err := scanMember(a.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, oops.Code("MEMBER_GET_FAILED").
			With("operation", "get member by id").
			Wrap(err)
	}
	return m, nil
}

func (a *Adapter) GetMemberByEmail(ctx context.Context, email string) (*core.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE lower(email) = lower($1)`

	m, err := scanMember(a.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, oops.Code("MEMBER_GET_FAILED").
			With("operation", "get member by email").
			Wrap(err)
	}
	return m, nil
}

func (a *Adapter) ListMembers(ctx context.Context) ([]*core.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY joined_at`

	rows, err := a.db.Query(ctx, query)
	if err != nil {
		return nil, oops.Code("MEMBER_LIST_FAILED").
			With("operation", "list members").
			Wrap(err)
	}
	defer rows.Close()

	var members []*core.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, oops.Code("MEMBER_SCAN_FAILED").
				With("operation", "scan member row").
				Wrap(err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("MEMBER_ROWS_ERROR").
			With("operation", "iterate member rows").
			Wrap(err)
	}

	return members, nil
}

func (a *Adapter) UpdatePasswordHash(ctx context.Context, memberID, hash string) error {
	result, err := a.db.Exec(ctx,
		`UPDATE members SET password_hash = $2 WHERE id = $1`,
		memberID, hash,
	)
	if err != nil {
		return oops.Code("MEMBER_UPDATE_FAILED").
			With("operation", "update password hash").
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (a *Adapter) SetMemberActive(ctx context.Context, memberID string, active bool) error {
	result, err := a.db.Exec(ctx,
		`UPDATE members SET is_active = $2 WHERE id = $1`,
		memberID, active,
	)
	if err != nil {
		return oops.Code("MEMBER_UPDATE_FAILED").
			With("operation", "set member active").
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (*core.Member, error) {
	m := &core.Member{}
	err := row.Scan(&m.ID, &m.Email, &m.Name, &m.PasswordHash, &m.IsAdmin, &m.IsActive, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}
