package domain

import "time"

// EntryStatus represents the review state of a queue entry.
type EntryStatus string

const (
	StatusPending         EntryStatus = "pending"
	StatusApproved        EntryStatus = "approved"
	StatusDismissed       EntryStatus = "dismissed"
	StatusPushedToContext EntryStatus = "pushed_to_context"
)

// IsReviewDecision reports whether the status is a valid target for a human
// review action. Status only ever moves pending -> one of these; there is no
// way back to pending.
func (s EntryStatus) IsReviewDecision() bool {
	switch s {
	case StatusApproved, StatusDismissed, StatusPushedToContext:
		return true
	}
	return false
}

// TriageQueueEntry is a persisted, admitted candidate awaiting human review.
// Identity is (user_id, source, source_id); a later sync observing the same
// identity updates the existing row instead of creating a duplicate.
type TriageQueueEntry struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	UserID     string         `json:"user_id" gorm:"uniqueIndex:idx_triage_identity;not null"`
	Source     Source         `json:"source" gorm:"uniqueIndex:idx_triage_identity;not null"`
	SourceID   string         `json:"source_id" gorm:"uniqueIndex:idx_triage_identity;not null"`
	Title      string         `json:"title"`
	Snippet    string         `json:"snippet"`
	Score      int            `json:"score"`
	Reasoning  string         `json:"reasoning"`
	Metadata   SourceMetadata `json:"metadata" gorm:"type:jsonb"`
	Status     EntryStatus    `json:"status" gorm:"default:pending;index"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// SyncResult is the aggregate outcome of one triage sync run. A non-empty
// Errors list means partial success, not failure: the sources that did
// respond are fully reflected in Added/Skipped.
type SyncResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}
