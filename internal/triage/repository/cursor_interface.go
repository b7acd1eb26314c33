package repository

import (
	"pulseboard-backend/internal/triage/domain"
)

// SyncCursorRepository defines persistence for per-user sync cursors.
type SyncCursorRepository interface {
	// GetCursor returns the stored cursor for (user, source), or nil when no
	// sync has completed yet.
	GetCursor(userID string, source domain.Source) (*domain.SyncCursor, error)

	// SetCursor atomically replaces the stored position for (user, source).
	SetCursor(userID string, source domain.Source, position string) error
}
