package domain

import "errors"

// Domain errors are pure, with no infrastructure dependency.

var (
	// Progress / persistence
	ErrNoProgress       = errors.New("no progress document for user")
	ErrNoPreferences    = errors.New("no preferences document for user")
	ErrProgressCorrupt  = errors.New("progress document could not be repaired")
	ErrUnknownDocSchema = errors.New("progress document schema version is newer than this binary")

	// Step source
	ErrStepSourceUnavailable = errors.New("step source unavailable or permission denied")

	// Reconciliation
	ErrSyncInFlight = errors.New("reconciliation already in flight for user")

	// Trails
	ErrTrailNotFound      = errors.New("trail not found in catalog")
	ErrNoActiveTrail      = errors.New("no trail currently selected")
	ErrTrailAlreadyActive = errors.New("trail is already the active selection")
)
