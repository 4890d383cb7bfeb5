package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrMessageNotFound = errors.New("message not found")
	ErrRateLimited     = errors.New("rate limit exceeded")
)
