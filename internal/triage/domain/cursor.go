package domain

import "time"

// SyncCursor stores the opaque provider-issued position marker for a
// cursor-capable source (only email today). Position is a Gmail historyId
// rendered as a decimal string; we never interpret it, only hand it back.
type SyncCursor struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_sync_cursor;not null"`
	Source    Source    `json:"source" gorm:"uniqueIndex:idx_sync_cursor;not null"`
	Position  string    `json:"position" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}
