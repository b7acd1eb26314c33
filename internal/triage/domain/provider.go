package domain

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// TokenUpdateFunc is called when a provider client refreshes an OAuth token,
// so the new token can be persisted.
type TokenUpdateFunc func(token *oauth2.Token) error

// Credential is a decrypted bearer credential handed to a provider client.
type Credential struct {
	AccessToken  string
	RefreshToken string
	OnRefresh    TokenUpdateFunc
}

// InboxMessage is one email surfaced by the email provider, header metadata
// only. Full bodies are never fetched.
type InboxMessage struct {
	ID         string
	ThreadID   string
	Subject    string
	From       string
	Preview    string
	ReceivedAt time.Time
	IsStarred  bool
}

// EmailChanges is the result of an incremental "changed since cursor" fetch.
type EmailChanges struct {
	Messages  []InboxMessage
	NewCursor string
	// Expired is set when the provider reported the cursor invalid. The
	// caller must fall back to a full resync; Messages is empty in that case.
	Expired bool
}

// EmailProvider is the wire-level email source.
type EmailProvider interface {
	ListRecent(ctx context.Context, cred Credential, n int64) ([]InboxMessage, error)
	ListStarred(ctx context.Context, cred Credential, n int64) ([]InboxMessage, error)
	ListSince(ctx context.Context, cred Credential, cursor string) (*EmailChanges, error)
	CurrentCursor(ctx context.Context, cred Credential) (string, error)
}

// ProviderTask is one active item from the task manager.
type ProviderTask struct {
	ID          string
	Content     string
	Description string
	Priority    int // 1 = normal .. 4 = urgent
	Due         *time.Time
	ProjectID   string
}

// TaskProvider is the wire-level task-manager source.
type TaskProvider interface {
	ListActiveTasks(ctx context.Context, cred Credential) ([]ProviderTask, error)
}

// ProviderEvent is one upcoming calendar event.
type ProviderEvent struct {
	ID          string
	Summary     string
	Description string
	StartTime   time.Time
	Organizer   string
}

// CalendarProvider is the wire-level calendar source.
type CalendarProvider interface {
	ListUpcoming(ctx context.Context, cred Credential, windowDays int) ([]ProviderEvent, error)
}

// ProviderListItem is one incomplete item from the secondary task list.
type ProviderListItem struct {
	ID    string
	Title string
	Notes string
	Due   *time.Time
}

// TaskListProvider is the wire-level secondary-task-list source.
type TaskListProvider interface {
	ListIncomplete(ctx context.Context, cred Credential) ([]ProviderListItem, error)
}
