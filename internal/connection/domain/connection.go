package domain

import (
	"strings"
	"time"
)

// Provider identifies an external account a user has connected.
type Provider string

const (
	// ProviderGoogle covers Gmail, Calendar and Google Tasks under one
	// OAuth grant; the Scopes field records what the user actually allowed.
	ProviderGoogle Provider = "google"

	// ProviderTodoist is a personal API token, no scopes.
	ProviderTodoist Provider = "todoist"
)

// OAuth scopes the triage sources need.
const (
	ScopeGmailReadonly    = "https://www.googleapis.com/auth/gmail.readonly"
	ScopeCalendarReadonly = "https://www.googleapis.com/auth/calendar.readonly"
	ScopeTasksReadonly    = "https://www.googleapis.com/auth/tasks.readonly"
)

// Connection is one user's credential for one provider. Tokens are encrypted
// at rest; the repository hands them out decrypted.
type Connection struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex:idx_connection_identity;not null"`
	Provider     Provider  `json:"provider" gorm:"uniqueIndex:idx_connection_identity;not null"`
	AccountEmail string    `json:"account_email" gorm:"index"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	Scopes       string    `json:"scopes"` // space-separated granted scopes
	TokenExpiry  time.Time `json:"token_expiry"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasScope reports whether the grant includes the given scope. An empty
// Scopes field means the provider does not use scopes (Todoist).
func (c *Connection) HasScope(scope string) bool {
	if c.Scopes == "" {
		return true
	}
	for _, s := range strings.Fields(c.Scopes) {
		if s == scope {
			return true
		}
	}
	return false
}
