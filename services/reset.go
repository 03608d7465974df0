package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborview/clubhouse/core"
	"github.com/harborview/clubhouse/pkg/crypto"
	"github.com/harborview/clubhouse/pkg/mail"
)

// Reset token lifetimes. The self-service "forgot password" flow is
// short-lived; the admin-initiated flow grants a full day.
const (
	ResetTokenExpiry      = time.Hour
	AdminResetTokenExpiry = 24 * time.Hour
)

// PasswordResetService handles the reset request and completion flows.
type PasswordResetService struct {
	members  core.MemberStorage
	resets   core.ResetStorage
	sessions *SessionManager
	hasher   crypto.PasswordHasher
	mailer   mail.Sender
	log      *slog.Logger
	baseURL  string
	now      func() time.Time
}

func NewPasswordResetService(
	members core.MemberStorage,
	resets core.ResetStorage,
	sessions *SessionManager,
	hasher crypto.PasswordHasher,
	mailer mail.Sender,
	log *slog.Logger,
	baseURL string,
) *PasswordResetService {
	if log == nil {
		log = slog.Default()
	}
	return &PasswordResetService{
		members:  members,
		resets:   resets,
		sessions: sessions,
		hasher:   hasher,
		mailer:   mailer,
		log:      log,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// RequestReset starts the self-service flow. It always reports success to the
// caller: when the email is unknown nothing further happens, so responses do
// not reveal whether an account exists. (Skipping the token and email work
// for unknown addresses leaves a minor timing signal; accepted.)
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	member, err := s.members.GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := s.issueToken(ctx, member.ID, ResetTokenExpiry)
	if err != nil {
		return err
	}

	msg := mail.Message{
		To:      member.Email,
		Subject: "Reset your Harborview Club password",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>Someone requested a password reset for your account. `+
				`The link below is valid for one hour.</p><p><a href="%s/reset-password?token=%s">Reset password</a></p>`+
				`<p>If this wasn't you, you can ignore this email.</p>`,
			member.Name, s.baseURL, token,
		),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// Delivery is the vendor's problem; log and report success anyway.
		s.log.Error("failed to send reset email", "member_id", member.ID, "error", err)
	}

	return nil
}

// AdminInitiateReset issues a 24-hour reset token for a member, on behalf of
// an administrator. The token is returned for display in the back office and
// the member is emailed the link.
func (s *PasswordResetService) AdminInitiateReset(ctx context.Context, memberID string) (token string, expiresAt time.Time, err error) {
	member, err := s.members.GetMemberByID(ctx, memberID)
	if err != nil {
		return "", time.Time{}, err
	}

	token, err = s.issueToken(ctx, member.ID, AdminResetTokenExpiry)
	if err != nil {
		return "", time.Time{}, err
	}

	msg := mail.Message{
		To:      member.Email,
		Subject: "Set a new Harborview Club password",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>A club administrator has issued you a password reset link. `+
				`It is valid for 24 hours.</p><p><a href="%s/reset-password?token=%s">Set a new password</a></p>`,
			member.Name, s.baseURL, token,
		),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("failed to send admin reset email", "member_id", member.ID, "error", err)
	}

	return token, s.now().Add(AdminResetTokenExpiry), nil
}

// CompleteReset consumes a reset token and sets a new password. Absent and
// expired tokens fail identically with ErrInvalidResetToken; an expired token
// is deleted on detection so retrying it also fails. On success every session
// for the member is destroyed.
func (s *PasswordResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	reset, err := s.resets.GetResetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrInvalidResetToken
		}
		return err
	}

	if !reset.ExpiresAt.After(s.now()) {
		if err := s.resets.DeleteResetByMember(ctx, reset.MemberID); err != nil {
			s.log.Error("failed to delete expired reset token", "member_id", reset.MemberID, "error", err)
		}
		return core.ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.members.UpdatePasswordHash(ctx, reset.MemberID, hash); err != nil {
		return err
	}

	if err := s.resets.DeleteResetByMember(ctx, reset.MemberID); err != nil {
		return err
	}

	_, err = s.sessions.DestroyAllForMember(ctx, reset.MemberID)
	return err
}

// SweepExpired garbage-collects expired reset rows. Reclamation only.
func (s *PasswordResetService) SweepExpired(ctx context.Context) (int64, error) {
	return s.resets.DeleteExpiredResets(ctx, s.now())
}

// issueToken upserts the single live reset row for the member. Concurrent
// requests converge on one token because the row is keyed by member.
func (s *PasswordResetService) issueToken(ctx context.Context, memberID string, ttl time.Duration) (string, error) {
	token, err := crypto.GenerateToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	reset := &core.PasswordReset{
		MemberID:  memberID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.resets.UpsertReset(ctx, reset); err != nil {
		return "", err
	}

	return token, nil
}
