package service

import "errors"

// Errors returned by the services. Handlers map them to status codes with errors.Is.
var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrContentsTooLong = errors.New("contents exceeds 256 characters")
	ErrIsDoneRequired  = errors.New("is_done is required")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrInvalidSignUp   = errors.New("username and password are required")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrOTPNotFound     = errors.New("otp not found")
	ErrOTPMismatch     = errors.New("otp mismatch")
)
