package models

import "errors"

// Custom errors
var (
	ErrInvalidLine      = errors.New("line must be a finite positive number")
	ErrInvalidGameValue = errors.New("game values must be finite and non-negative")
	ErrInvalidOdds      = errors.New("odds must be finite and non-zero")
	ErrNotFound         = errors.New("record not found")
)
