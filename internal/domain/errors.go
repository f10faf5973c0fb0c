package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Input errors
	ErrEmptyPlayerID   = errors.New("player id must not be empty")
	ErrEmptyActivityID = errors.New("activity id must not be empty")

	// Ledger errors
	ErrNonPositiveAmount = errors.New("credit amount must be positive")

	// Store errors
	ErrRemoteUnavailable = errors.New("remote store is unreachable")
	ErrStateCorrupted    = errors.New("local record unreadable, reinitialized to defaults")
)
