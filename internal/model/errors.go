package model

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	// ErrDailyLimit marks a wellbeing submission past the per-day cap.
	ErrDailyLimit = errors.New("daily limit reached")
)
