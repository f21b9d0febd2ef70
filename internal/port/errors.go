package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenInvalid        = errors.New("token invalid")
	ErrUserNotFound        = errors.New("user not found")
	ErrDatabaseUnavailable = errors.New("database unavailable")
	ErrAssessmentNotFound  = errors.New("assessment not found")
)
