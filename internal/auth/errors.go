package auth

import "fmt"

// ErrUsernameTaken indicates the username is already registered.
type ErrUsernameTaken struct {
	Username string
}

func (e *ErrUsernameTaken) Error() string {
	return "Username already exists"
}

// ErrEmailTaken indicates the email is already registered.
type ErrEmailTaken struct {
	Email string
}

func (e *ErrEmailTaken) Error() string {
	return "Email already registered"
}

// ErrInvalidCredentials indicates a failed login.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "Invalid username/email or password"
}

// ErrUserNotFound indicates the token's user no longer exists.
type ErrUserNotFound struct {
	UserID int64
}

func (e *ErrUserNotFound) Error() string {
	return "User not found"
}

// ErrUnauthorized indicates a missing, invalid, expired or revoked token.
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}
