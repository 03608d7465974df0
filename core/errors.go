package core

import "errors"

// Authorization errors
var (
	ErrUnauthorized = errors.New("authentication required")   // 401
	ErrForbidden    = errors.New("admin privileges required") // 403
)

// Authentication errors. ErrInvalidCredentials covers both unknown email and
// wrong password so the two cases are indistinguishable to the caller.
// ErrAccountDeactivated is deliberately distinct: the account's existence is
// already known to the admin who deactivated it.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")         // 401
	ErrAccountDeactivated = errors.New("this account has been deactivated") // 401
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")    // 400
)

// Lookup / conflict errors
var (
	ErrNotFound   = errors.New("not found")                                 // 404
	ErrEmailTaken = errors.New("an account with this email already exists") // 409
)

// Validation errors (client input)
var (
	ErrEmailRequired    = errors.New("email is required")            // 400
	ErrInvalidEmail     = errors.New("invalid email address")        // 400
	ErrPasswordRequired = errors.New("password is required")         // 400
	ErrPasswordTooShort = errors.New("password is too short")        // 400
	ErrPasswordTooLong  = errors.New("password is too long")         // 400
	ErrTitleRequired    = errors.New("event title is required")      // 400
	ErrStartsAtRequired = errors.New("event start time is required") // 400
)
