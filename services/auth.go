package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/harborview/clubhouse/core"
	"github.com/harborview/clubhouse/pkg/crypto"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// AuthService implements signup, login, logout and password change.
type AuthService struct {
	members  core.MemberStorage
	sessions *SessionManager
	hasher   crypto.PasswordHasher
	ids      *crypto.NanoIDGenerator
}

func NewAuthService(members core.MemberStorage, sessions *SessionManager, hasher crypto.PasswordHasher) *AuthService {
	return &AuthService{
		members:  members,
		sessions: sessions,
		hasher:   hasher,
		ids:      crypto.NewNanoID(),
	}
}

// SignUpInput contains the data needed to register a new member.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResult contains the authenticated member and their session. The
// session carries the raw token for cookie-setting; the member's password
// hash is stripped.
type AuthResult struct {
	Member  *core.Member  `json:"member"`
	Session *core.Session `json:"session"`
}

// SignUp registers a new active, non-admin member and logs them in.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	memberID, err := s.ids.Generate()
	if err != nil {
		return nil, err
	}

	member := &core.Member{
		ID:           memberID,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		IsAdmin:      false,
		IsActive:     true,
	}

	// The storage layer enforces email uniqueness case-insensitively and
	// reports ErrEmailTaken, so there is no check-then-insert race here.
	if err := s.members.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Member: sanitize(member), Session: session}, nil
}

// Login authenticates a member by email and password.
//
// An unknown email and a wrong password produce the identical
// ErrInvalidCredentials failure, so callers cannot probe for registered
// emails. A deactivated account fails with a distinct, explicit error: its
// existence is already implied by the account being known to an admin.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	member, err := s.members.GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, err
	}

	if !member.IsActive {
		return nil, core.ErrAccountDeactivated
	}

	if !s.hasher.Verify(password, member.PasswordHash) {
		return nil, core.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Member: sanitize(member), Session: session}, nil
}

// Logout destroys the current session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// ChangePassword verifies the current password, stores a new hash and
// invalidates every session for the member.
func (s *AuthService) ChangePassword(ctx context.Context, memberID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	member, err := s.members.GetMemberByID(ctx, memberID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, member.PasswordHash) {
		return core.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.members.UpdatePasswordHash(ctx, member.ID, hash); err != nil {
		return err
	}

	_, err = s.sessions.DestroyAllForMember(ctx, member.ID)
	return err
}

// sanitize returns a copy of the member with the password hash stripped.
func sanitize(m *core.Member) *core.Member {
	clean := *m
	clean.PasswordHash = ""
	return &clean
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return core.ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return core.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return core.ErrPasswordRequired
	case len(password) < minPasswordLength:
		return core.ErrPasswordTooShort
	case len(password) > maxPasswordLength:
		return core.ErrPasswordTooLong
	}
	return nil
}
