package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/harborview/clubhouse/core"
)

const eventColumns = `id, title, details, location, starts_at, created_by, created_at`

func (a *Adapter) CreateEvent(ctx context.Context, e *core.Event) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO events (id, title, details, location, starts_at, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Title, e.Details, e.Location, e.StartsAt, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return oops.Code("EVENT_CREATE_FAILED").
			With("operation", "insert event").
			Wrap(err)
	}
	return nil
}

func (a *Adapter) GetEventByID(ctx context.Context, id string) (*core.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(a.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, oops.Code("EVENT_GET_FAILED").
			With("operation", "get event by id").
			Wrap(err)
	}
	return e, nil
}

func (a *Adapter) ListUpcomingEvents(ctx context.Context, now time.Time) ([]*core.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE starts_at > $1 ORDER BY starts_at`

	rows, err := a.db.Query(ctx, query, now)
	if err != nil {
		return nil, oops.Code("EVENT_LIST_FAILED").
			With("operation", "list upcoming events").
			Wrap(err)
	}
	defer rows.Close()

	var events []*core.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, oops.Code("EVENT_SCAN_FAILED").
				With("operation", "scan event row").
				Wrap(err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("EVENT_ROWS_ERROR").
			With("operation", "iterate event rows").
			Wrap(err)
	}

	return events, nil
}

func (a *Adapter) DeleteEvent(ctx context.Context, id string) error {
	// RSVPs go with the event via ON DELETE CASCADE.
	result, err := a.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return oops.Code("EVENT_DELETE_FAILED").
			With("operation", "delete event").
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (a *Adapter) UpsertRSVP(ctx context.Context, r *core.RSVP) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO rsvps (event_id, member_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (event_id, member_id) DO NOTHING`,
		r.EventID, r.MemberID, r.CreatedAt,
	)
	if err != nil {
		return oops.Code("RSVP_UPSERT_FAILED").
			With("operation", "upsert rsvp").
			With("event_id", r.EventID).
			Wrap(err)
	}
	return nil
}

func (a *Adapter) DeleteRSVP(ctx context.Context, eventID, memberID string) error {
	_, err := a.db.Exec(ctx,
		`DELETE FROM rsvps WHERE event_id = $1 AND member_id = $2`,
		eventID, memberID,
	)
	if err != nil {
		return oops.Code("RSVP_DELETE_FAILED").
			With("operation", "delete rsvp").
			With("event_id", eventID).
			Wrap(err)
	}
	return nil
}

func (a *Adapter) ListEventRSVPs(ctx context.Context, eventID string) ([]*core.RSVP, error) {
	rows, err := a.db.Query(ctx,
		`SELECT event_id, member_id, created_at FROM rsvps WHERE event_id = $1 ORDER BY created_at`,
		eventID,
	)
	if err != nil {
		return nil, oops.Code("RSVP_LIST_FAILED").
			With("operation", "list event rsvps").
			Wrap(err)
	}
	defer rows.Close()

	var rsvps []*core.RSVP
	for rows.Next() {
		r := &core.RSVP{}
		if err := rows.Scan(&r.EventID, &r.MemberID, &r.CreatedAt); err != nil {
			return nil, oops.Code("RSVP_SCAN_FAILED").
				With("operation", "scan rsvp row").
				Wrap(err)
		}
		rsvps = append(rsvps, r)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("RSVP_ROWS_ERROR").
			With("operation", "iterate rsvp rows").
			Wrap(err)
	}

	return rsvps, nil
}

func scanEvent(row pgx.Row) (*core.Event, error) {
	e := &core.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Details, &e.Location, &e.StartsAt, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
