package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// Auth / OTP errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrOTPExpired   = errors.New("otp expired or not issued")
	ErrOTPMismatch  = errors.New("otp code mismatch")
	ErrSendFailed   = errors.New("failed to send otp email")
)

// Entity errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrQuestionNotFound    = errors.New("security question not found")
)
