package services

import (
	"context"
	"errors"
	"testing"

	"github.com/harborview/clubhouse/core"
)

// Requirement: listing members never exposes password hashes.
func TestAdminService_ListMembers(t *testing.T) {
	storage := NewFakeStorage()
	sm := NewSessionManager(core.DefaultSessionConfig(), storage)
	svc := NewAdminService(storage, sm)
	seedMember(t, storage, "member-1", "alice@example.com", "correcthorse1", false, true)
	seedMember(t, storage, "member-2", "bob@example.com", "correcthorse1", true, true)

	members, err := svc.ListMembers(context.Background())
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	for _, m := range members {
		if m.PasswordHash != "" {
			t.Errorf("member %s still carries a password hash", m.ID)
		}
	}
}

// Requirement: revoking a member's sessions leaves other members logged in.
func TestAdminService_RevokeMemberSessions(t *testing.T) {
	storage := NewFakeStorage()
	sm := NewSessionManager(core.DefaultSessionConfig(), storage)
	svc := NewAdminService(storage, sm)
	ctx := context.Background()
	seedMember(t, storage, "member-1", "alice@example.com", "correcthorse1", false, true)
	seedMember(t, storage, "member-2", "bob@example.com", "correcthorse1", false, true)

	s1, _ := sm.Create(ctx, "member-1")
	s2, _ := sm.Create(ctx, "member-2")

	count, err := svc.RevokeMemberSessions(ctx, "member-1")
	if err != nil {
		t.Fatalf("RevokeMemberSessions() error = %v", err)
	}
	if count != 1 {
		t.Errorf("revoked = %d, want 1", count)
	}
	if resolved, _ := sm.Resolve(ctx, s1.Token); resolved != nil {
		t.Error("member-1 session should be gone")
	}
	if resolved, _ := sm.Resolve(ctx, s2.Token); resolved == nil {
		t.Error("member-2 session should survive")
	}

	if _, err := svc.RevokeMemberSessions(ctx, "no-such-member"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("RevokeMemberSessions() error = %v, want %v", err, core.ErrNotFound)
	}
}

func TestAdminService_SetMemberActive(t *testing.T) {
	storage := NewFakeStorage()
	sm := NewSessionManager(core.DefaultSessionConfig(), storage)
	svc := NewAdminService(storage, sm)
	ctx := context.Background()
	seedMember(t, storage, "member-1", "alice@example.com", "correcthorse1", false, true)

	if err := svc.SetMemberActive(ctx, "member-1", false); err != nil {
		t.Fatalf("SetMemberActive() error = %v", err)
	}
	member, _ := storage.GetMemberByID(ctx, "member-1")
	if member.IsActive {
		t.Error("member should be deactivated")
	}

	if err := svc.SetMemberActive(ctx, "no-such-member", false); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("SetMemberActive() error = %v, want %v", err, core.ErrNotFound)
	}
}
