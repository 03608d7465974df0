package services

import (
	"context"

	"github.com/harborview/clubhouse/core"
)

// AdminService backs the member-management side of the admin back office.
// Every operation here sits behind the gate's RequireAdmin check.
type AdminService struct {
	members  core.MemberStorage
	sessions *SessionManager
}

func NewAdminService(members core.MemberStorage, sessions *SessionManager) *AdminService {
	return &AdminService{members: members, sessions: sessions}
}

// ListMembers returns every member, password hashes stripped.
func (s *AdminService) ListMembers(ctx context.Context) ([]*core.Member, error) {
	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Member, 0, len(members))
	for _, m := range members {
		out = append(out, sanitize(m))
	}
	return out, nil
}

// SetMemberActive flips the active flag. Deactivation blocks fresh logins
// only; it does not revoke the member's live sessions. An admin who wants an
// immediate lockout follows up with RevokeMemberSessions.
func (s *AdminService) SetMemberActive(ctx context.Context, memberID string, active bool) error {
	return s.members.SetMemberActive(ctx, memberID, active)
}

// RevokeMemberSessions destroys every session for the member and returns how
// many were removed.
func (s *AdminService) RevokeMemberSessions(ctx context.Context, memberID string) (int64, error) {
	if _, err := s.members.GetMemberByID(ctx, memberID); err != nil {
		return 0, err
	}
	return s.sessions.DestroyAllForMember(ctx, memberID)
}
