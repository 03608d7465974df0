package services

import (
	"context"
	"strings"
	"time"

	"github.com/harborview/clubhouse/core"
	"github.com/harborview/clubhouse/pkg/crypto"
)

// EventService manages the events calendar and member RSVPs.
type EventService struct {
	events core.EventStorage
	ids    *crypto.NanoIDGenerator
	now    func() time.Time
}

func NewEventService(events core.EventStorage) *EventService {
	return &EventService{
		events: events,
		ids:    crypto.NewNanoID(),
		now:    time.Now,
	}
}

// CreateEventInput contains the data for a new calendar entry.
type CreateEventInput struct {
	Title    string    `json:"title"`
	Details  string    `json:"details"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"startsAt"`
}

// CreateEvent adds an event to the calendar. Admin-only; enforced by the
// caller through the gate.
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput, createdBy string) (*core.Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, core.ErrTitleRequired
	}
	if input.StartsAt.IsZero() {
		return nil, core.ErrStartsAtRequired
	}

	eventID, err := s.ids.Generate()
	if err != nil {
		return nil, err
	}

	event := &core.Event{
		ID:        eventID,
		Title:     strings.TrimSpace(input.Title),
		Details:   input.Details,
		Location:  input.Location,
		StartsAt:  input.StartsAt,
		CreatedBy: createdBy,
		CreatedAt: s.now(),
	}

	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListUpcoming returns events that have not started yet, soonest first.
func (s *EventService) ListUpcoming(ctx context.Context) ([]*core.Event, error) {
	return s.events.ListUpcomingEvents(ctx, s.now())
}

// DeleteEvent removes an event and, via the schema, its RSVPs.
func (s *EventService) DeleteEvent(ctx context.Context, eventID string) error {
	return s.events.DeleteEvent(ctx, eventID)
}

// RSVP marks the member as attending. Repeating an RSVP is a no-op.
func (s *EventService) RSVP(ctx context.Context, eventID, memberID string) error {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	return s.events.UpsertRSVP(ctx, &core.RSVP{
		EventID:   event.ID,
		MemberID:  memberID,
		CreatedAt: s.now(),
	})
}

// CancelRSVP withdraws the member's RSVP. Idempotent.
func (s *EventService) CancelRSVP(ctx context.Context, eventID, memberID string) error {
	return s.events.DeleteRSVP(ctx, eventID, memberID)
}

// ListAttendees returns the RSVPs for an event.
func (s *EventService) ListAttendees(ctx context.Context, eventID string) ([]*core.RSVP, error) {
	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.events.ListEventRSVPs(ctx, eventID)
}
