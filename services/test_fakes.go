package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/harborview/clubhouse/core"
	"github.com/harborview/clubhouse/pkg/mail"
)

// FakeStorage is a test-only in-memory implementation of core.Storage.
// It exposes error fields for behavior injection.
type FakeStorage struct {
	mu sync.RWMutex

	members  map[string]*core.Member        // by ID
	sessions map[string]*core.Session       // by token
	resets   map[string]*core.PasswordReset // by member ID
	events   map[string]*core.Event         // by ID
	rsvps    map[string]*core.RSVP          // by eventID + "/" + memberID

	createMemberErr error
	getMemberErr    error
	sessionErr      error
	resetErr        error
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		members:  make(map[string]*core.Member),
		sessions: make(map[string]*core.Session),
		resets:   make(map[string]*core.PasswordReset),
		events:   make(map[string]*core.Event),
		rsvps:    make(map[string]*core.RSVP),
	}
}

// --- MemberStorage ---

func (f *FakeStorage) CreateMember(_ context.Context, m *core.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createMemberErr != nil {
		return f.createMemberErr
	}
	for _, existing := range f.members {
		if strings.EqualFold(existing.Email, m.Email) {
			return core.ErrEmailTaken
		}
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	f.members[m.ID] = m
	return nil
}

func (f *FakeStorage) GetMemberByID(_ context.Context, id string) (*core.Member, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getMemberErr != nil {
		return nil, f.getMemberErr
	}
	m, ok := f.members[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return m, nil
}

func (f *FakeStorage) GetMemberByEmail(_ context.Context, email string) (*core.Member, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getMemberErr != nil {
		return nil, f.getMemberErr
	}
	for _, m := range f.members {
		if strings.EqualFold(m.Email, email) {
			return m, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *FakeStorage) ListMembers(_ context.Context) ([]*core.Member, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*core.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

func (f *FakeStorage) UpdatePasswordHash(_ context.Context, memberID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberID]
	if !ok {
		return core.ErrNotFound
	}
	m.PasswordHash = hash
	return nil
}

func (f *FakeStorage) SetMemberActive(_ context.Context, memberID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberID]
	if !ok {
		return core.ErrNotFound
	}
	m.IsActive = active
	return nil
}

// --- SessionStorage ---

func (f *FakeStorage) CreateSession(_ context.Context, s *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return f.sessionErr
	}
	f.sessions[s.Token] = s
	return nil
}

func (f *FakeStorage) GetLiveSession(_ context.Context, token string, now time.Time) (*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	s, ok := f.sessions[token]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, core.ErrNotFound
	}
	return s, nil
}

func (f *FakeStorage) DeleteSessionByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return f.sessionErr
	}
	delete(f.sessions, token)
	return nil
}

func (f *FakeStorage) DeleteMemberSessions(_ context.Context, memberID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for token, s := range f.sessions {
		if s.MemberID == memberID {
			delete(f.sessions, token)
			count++
		}
	}
	return count, nil
}

func (f *FakeStorage) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for token, s := range f.sessions {
		if !s.ExpiresAt.After(now) {
			delete(f.sessions, token)
			count++
		}
	}
	return count, nil
}

// --- ResetStorage ---

func (f *FakeStorage) UpsertReset(_ context.Context, r *core.PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets[r.MemberID] = r
	return nil
}

func (f *FakeStorage) GetResetByToken(_ context.Context, token string) (*core.PasswordReset, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.resetErr != nil {
		return nil, f.resetErr
	}
	for _, r := range f.resets {
		if r.Token == token {
			return r, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *FakeStorage) DeleteResetByMember(_ context.Context, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.resets, memberID)
	return nil
}

func (f *FakeStorage) DeleteExpiredResets(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, r := range f.resets {
		if !r.ExpiresAt.After(now) {
			delete(f.resets, id)
			count++
		}
	}
	return count, nil
}

// --- EventStorage ---

func (f *FakeStorage) CreateEvent(_ context.Context, e *core.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[e.ID] = e
	return nil
}

func (f *FakeStorage) GetEventByID(_ context.Context, id string) (*core.Event, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.events[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return e, nil
}

func (f *FakeStorage) ListUpcomingEvents(_ context.Context, now time.Time) ([]*core.Event, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*core.Event
	for _, e := range f.events {
		if e.StartsAt.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *FakeStorage) DeleteEvent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
	for key, r := range f.rsvps {
		if r.EventID == id {
			delete(f.rsvps, key)
		}
	}
	return nil
}

func (f *FakeStorage) UpsertRSVP(_ context.Context, r *core.RSVP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rsvps[r.EventID+"/"+r.MemberID] = r
	return nil
}

func (f *FakeStorage) DeleteRSVP(_ context.Context, eventID, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rsvps, eventID+"/"+memberID)
	return nil
}

func (f *FakeStorage) ListEventRSVPs(_ context.Context, eventID string) ([]*core.RSVP, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*core.RSVP
	for _, r := range f.rsvps {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

var _ core.Storage = (*FakeStorage)(nil)

// FakeSender records sent mail for assertions.
type FakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *FakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *FakeSender) Sent() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}

var _ mail.Sender = (*FakeSender)(nil)
