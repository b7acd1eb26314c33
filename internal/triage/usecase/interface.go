package usecase

import (
	"context"

	"pulseboard-backend/internal/triage/domain"
)

// SourceAdapter fetches candidate items from one external provider and
// normalizes them into the canonical shape. Adapters never partially throw:
// any failure comes back as a typed error from the shared taxonomy so the
// orchestrator can isolate it.
type SourceAdapter interface {
	Source() domain.Source
	Fetch(ctx context.Context, userID string) ([]domain.CandidateItem, error)
}

// TriageUsecase is the triage pipeline's public surface.
type TriageUsecase interface {
	// RunTriageSync runs all source pipelines concurrently for one user and
	// returns the aggregate result. It never returns an error; per-source
	// failures are captured in the result's Errors list.
	RunTriageSync(ctx context.Context, userID string) *domain.SyncResult

	// TriggerSync kicks off a sync in a detached background task. Errors are
	// logged, never propagated to the caller.
	TriggerSync(userID string)

	// GetQueue lists a user's review queue entries.
	GetQueue(userID string, status *domain.EntryStatus, limit, offset int) ([]*domain.TriageQueueEntry, int64, error)

	// ReviewEntry records a human decision on a pending entry. Returns false
	// when the entry was already reviewed.
	ReviewEntry(userID, entryID string, decision domain.EntryStatus) (bool, error)
}
