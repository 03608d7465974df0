package services

import (
	"context"
	"errors"
	"testing"

	"github.com/harborview/clubhouse/core"
	"github.com/harborview/clubhouse/pkg/crypto"
)

func newTestAuth(t *testing.T) (*AuthService, *SessionManager, *FakeStorage) {
	t.Helper()
	storage := NewFakeStorage()
	sm := NewSessionManager(core.DefaultSessionConfig(), storage)
	return NewAuthService(storage, sm, crypto.NewPBKDF2()), sm, storage
}

// seedMember registers a member directly through the storage fake.
func seedMember(t *testing.T, storage *FakeStorage, id, email, password string, admin, active bool) *core.Member {
	t.Helper()
	hash, err := crypto.NewPBKDF2().Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	m := &core.Member{
		ID:           id,
		Email:        email,
		Name:         "Test Member",
		PasswordHash: hash,
		IsAdmin:      admin,
		IsActive:     active,
	}
	if err := storage.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	return m
}

// Requirement: SignUp creates an active, non-admin member and logs them in.
func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name    string
		input   SignUpInput
		setup   func(*FakeStorage)
		wantErr error
	}{
		{
			name:  "creates member and session for valid input",
			input: SignUpInput{Email: "alice@example.com", Password: "correcthorse1", Name: "Alice"},
		},
		{
			name:    "rejects empty email",
			input:   SignUpInput{Email: "", Password: "correcthorse1"},
			wantErr: core.ErrEmailRequired,
		},
		{
			name:    "rejects malformed email",
			input:   SignUpInput{Email: "not-an-email", Password: "correcthorse1"},
			wantErr: core.ErrInvalidEmail,
		},
		{
			name:    "rejects short password",
			input:   SignUpInput{Email: "alice@example.com", Password: "short"},
			wantErr: core.ErrPasswordTooShort,
		},
		{
			name:  "rejects duplicate email case-insensitively",
			input: SignUpInput{Email: "Alice@Example.com", Password: "correcthorse1"},
			setup: func(storage *FakeStorage) {
				seedMember(t, storage, "existing", "alice@example.com", "correcthorse1", false, true)
			},
			wantErr: core.ErrEmailTaken,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			auth, _, storage := newTestAuth(t)
			if test.setup != nil {
				test.setup(storage)
			}

			// Act
			result, err := auth.SignUp(context.Background(), test.input)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("SignUp() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignUp() error = %v", err)
			}
			if result.Member.IsAdmin || !result.Member.IsActive {
				t.Error("SignUp() should create an active, non-admin member")
			}
			if result.Member.PasswordHash != "" {
				t.Error("SignUp() must strip the password hash")
			}
			if result.Session == nil || result.Session.Token == "" {
				t.Error("SignUp() should log the new member in")
			}
		})
	}
}

// Requirement: login against a non-existent email and login with a wrong
// password both produce the identical InvalidCredentials failure.
func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "alice@example.com", password: "correcthorse1"},
		{name: "case-folded email", email: "ALICE@EXAMPLE.COM", password: "correcthorse1"},
		{name: "unknown email", email: "nobody@example.com", password: "correcthorse1", wantErr: core.ErrInvalidCredentials},
		{name: "wrong password", email: "alice@example.com", password: "wrong-password", wantErr: core.ErrInvalidCredentials},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			auth, _, storage := newTestAuth(t)
			seedMember(t, storage, "member-alice", "alice@example.com", "correcthorse1", false, true)

			// Act
			result, err := auth.Login(context.Background(), test.email, test.password)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if result.Member.ID != "member-alice" {
				t.Errorf("Login() member = %q, want %q", result.Member.ID, "member-alice")
			}
			if result.Member.PasswordHash != "" {
				t.Error("Login() must strip the password hash")
			}
			if result.Session.Token == "" {
				t.Error("Login() should issue a session token")
			}
		})
	}
}

// Requirement: a deactivated account fails login with AccountDeactivated even
// with the correct password, never with InvalidCredentials.
func TestAuthService_Login_Deactivated(t *testing.T) {
	auth, _, storage := newTestAuth(t)
	seedMember(t, storage, "member-bob", "bob@example.com", "correcthorse1", false, false)

	_, err := auth.Login(context.Background(), "bob@example.com", "correcthorse1")

	if !errors.Is(err, core.ErrAccountDeactivated) {
		t.Fatalf("Login() error = %v, want %v", err, core.ErrAccountDeactivated)
	}
}

// Requirement: unknown-email and wrong-password failures carry the same
// user-visible message.
func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	auth, _, storage := newTestAuth(t)
	seedMember(t, storage, "member-alice", "alice@example.com", "correcthorse1", false, true)

	_, errUnknown := auth.Login(context.Background(), "nobody@example.com", "correcthorse1")
	_, errWrongPw := auth.Login(context.Background(), "alice@example.com", "wrong-password")

	if errUnknown == nil || errWrongPw == nil {
		t.Fatal("both logins should fail")
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("failure messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

// Requirement: ChangePassword verifies the current password, then invalidates
// every existing session for the member.
func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		newPassword string
		wantErr     error
	}{
		{name: "success", current: "correcthorse1", newPassword: "betterhorse22"},
		{name: "wrong current password", current: "not-the-password", newPassword: "betterhorse22", wantErr: core.ErrInvalidCredentials},
		{name: "new password too short", current: "correcthorse1", newPassword: "tiny", wantErr: core.ErrPasswordTooShort},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			auth, sm, storage := newTestAuth(t)
			seedMember(t, storage, "member-alice", "alice@example.com", "correcthorse1", false, true)
			ctx := context.Background()
			session, err := sm.Create(ctx, "member-alice")
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			// Act
			err = auth.ChangePassword(ctx, "member-alice", test.current, test.newPassword)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("ChangePassword() error = %v, want %v", err, test.wantErr)
				}
				if resolved, _ := sm.Resolve(ctx, session.Token); resolved == nil {
					t.Error("failed ChangePassword() must not invalidate sessions")
				}
				return
			}
			if err != nil {
				t.Fatalf("ChangePassword() error = %v", err)
			}
			if resolved, _ := sm.Resolve(ctx, session.Token); resolved != nil {
				t.Error("ChangePassword() should invalidate existing sessions")
			}
			if _, err := auth.Login(ctx, "alice@example.com", test.newPassword); err != nil {
				t.Errorf("login with the new password failed: %v", err)
			}
			if _, err := auth.Login(ctx, "alice@example.com", test.current); !errors.Is(err, core.ErrInvalidCredentials) {
				t.Errorf("login with the old password should fail, got %v", err)
			}
		})
	}
}

// Requirement: the full lifecycle - signup, login, authenticated resolution,
// password change, stale token rejection.
func TestAuthService_EndToEnd(t *testing.T) {
	auth, sm, storage := newTestAuth(t)
	gate := NewGate(sm, storage)
	ctx := context.Background()

	seedMember(t, storage, "member-alice", "alice@example.com", "correcthorse1", false, true)

	// Login succeeds and returns token T1.
	result, err := auth.Login(ctx, "alice@example.com", "correcthorse1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	t1 := result.Session.Token

	// RequireAuth with T1 resolves the account.
	data, err := gate.RequireAuth(ctx, t1)
	if err != nil {
		t.Fatalf("RequireAuth() error = %v", err)
	}
	if data.Member.ID != "member-alice" {
		t.Errorf("RequireAuth() member = %q, want %q", data.Member.ID, "member-alice")
	}

	// ChangePassword with the correct current password invalidates T1.
	if err := auth.ChangePassword(ctx, "member-alice", "correcthorse1", "betterhorse22"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	// Subsequent RequireAuth with T1 fails with Unauthorized.
	if _, err := gate.RequireAuth(ctx, t1); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("RequireAuth() after password change error = %v, want %v", err, core.ErrUnauthorized)
	}
}
