package repository

import (
	"pulseboard-backend/internal/triage/domain"
)

// TriageQueueRepository defines persistence for the review queue.
type TriageQueueRepository interface {
	// UpsertIfPending inserts the entry, or refreshes title/snippet/score/
	// reasoning/metadata of the existing row with the same
	// (user_id, source, source_id) identity. Rows whose status has left
	// "pending" are never touched; the guard is evaluated inside the write,
	// not by the application.
	UpsertIfPending(entry *domain.TriageQueueEntry) error

	// FindByUser lists a user's queue entries, optionally filtered by status,
	// newest score first.
	FindByUser(userID string, status *domain.EntryStatus, limit, offset int) ([]*domain.TriageQueueEntry, int64, error)

	// FindByIdentity looks up one entry by its dedup key. Returns nil when absent.
	FindByIdentity(userID string, source domain.Source, sourceID string) (*domain.TriageQueueEntry, error)

	// SetStatus records a human review decision. The update only applies while
	// the row is still pending; it returns false when the row was already
	// reviewed (or does not exist).
	SetStatus(userID, entryID string, status domain.EntryStatus) (bool, error)
}
