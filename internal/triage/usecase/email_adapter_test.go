package usecase

import (
	"context"
	"testing"
	"time"

	conndomain "pulseboard-backend/internal/connection/domain"
	"pulseboard-backend/internal/triage/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(id, subject string, starred bool) domain.InboxMessage {
	return domain.InboxMessage{
		ID:         id,
		Subject:    subject,
		From:       "sender@example.com",
		Preview:    "preview",
		ReceivedAt: time.Now(),
		IsStarred:  starred,
	}
}

func TestEmailAdapter_NotConnected(t *testing.T) {
	adapter := NewEmailAdapter(&fakeEmailProvider{}, newFakeConnectionRepo(), newFakeCursorRepo())

	items, err := adapter.Fetch(context.Background(), "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotConnected)
	assert.True(t, domain.IsSoftSkip(err))
	assert.Nil(t, items)
}

func TestEmailAdapter_MissingScope(t *testing.T) {
	conns := newFakeConnectionRepo()
	conns.put("user-1", conndomain.ProviderGoogle, conndomain.ScopeCalendarReadonly)

	adapter := NewEmailAdapter(&fakeEmailProvider{}, conns, newFakeCursorRepo())

	_, err := adapter.Fetch(context.Background(), "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientScope)
	assert.True(t, domain.IsSoftSkip(err))
}

func TestEmailAdapter_FirstSyncDoesFullResync(t *testing.T) {
	conns := newFakeConnectionRepo()
	conns.put("user-1", conndomain.ProviderGoogle, conndomain.ScopeGmailReadonly)
	cursors := newFakeCursorRepo()
	provider := &fakeEmailProvider{
		recent:    []domain.InboxMessage{msg("a", "First", false), msg("b", "Second", false)},
		starred:   []domain.InboxMessage{msg("c", "Starred", true)},
		cursorNow: "12345",
	}

	adapter := NewEmailAdapter(provider, conns, cursors)

	items, err := adapter.Fetch(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 0, provider.listSinceCalls)

	// Cursor is anchored at the mailbox's current position.
	cursor, err := cursors.GetCursor("user-1", domain.SourceEmail)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, "12345", cursor.Position)
}

func TestEmailAdapter_FullResyncUnionStarredWins(t *testing.T) {
	conns := newFakeConnectionRepo()
	conns.put("user-1", conndomain.ProviderGoogle, conndomain.ScopeGmailReadonly)
	provider := &fakeEmailProvider{
		recent: []domain.InboxMessage{msg("a", "Overlap", false), msg("b", "Inbox only", false)},
		starred: []domain.InboxMessage{
			msg("a", "Overlap", true), // same message, starred view
			msg("c", "Starred only", true),
		},
		cursorNow: "100",
	}

	adapter := NewEmailAdapter(provider, conns, newFakeCursorRepo())

	items, err := adapter.Fetch(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	byID := map[string]domain.CandidateItem{}
	for _, item := range items {
		byID[item.SourceID] = item
	}
	require.Contains(t, byID, "a")
	assert.True(t, byID["a"].Metadata.Email.IsStarred, "overlap keeps the starred flag")
	assert.False(t, byID["b"].Metadata.Email.IsStarred)
	assert.True(t, byID["c"].Metadata.Email.IsStarred)
}

func TestEmailAdapter_IncrementalFetchAdvancesCursor(t *testing.T) {
	conns := newFakeConnectionRepo()
	conns.put("user-1", conndomain.ProviderGoogle, conndomain.ScopeGmailReadonly)
	cursors := newFakeCursorRepo()
	require.NoError(t, cursors.SetCursor("user-1", domain.SourceEmail, "50"))

	provider := &fakeEmailProvider{
		changes: &domain.EmailChanges{
			Messages:  []domain.InboxMessage{msg("n1", "New mail", false)},
			NewCursor: "60",
		},
	}

	adapter := NewEmailAdapter(provider, conns, cursors)

	items, err := adapter.Fetch(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "n1", items[0].SourceID)
	assert.Equal(t, 1, provider.listSinceCalls)
	assert.Equal(t, 0, provider.fullResyncCalls)

	cursor, err := cursors.GetCursor("user-1", domain.SourceEmail)
	require.NoError(t, err)
	assert.Equal(t, "60", cursor.Position)
}

func TestEmailAdapter_ExpiredCursorFallsBackToFullResync(t *testing.T) {
	conns := newFakeConnectionRepo()
	conns.put("user-1", conndomain.ProviderGoogle, conndomain.ScopeGmailReadonly)
	cursors := newFakeCursorRepo()
	require.NoError(t, cursors.SetCursor("user-1", domain.SourceEmail, "stale"))

	provider := &fakeEmailProvider{
		changes:   &domain.EmailChanges{Expired: true},
		recent:    []domain.InboxMessage{msg("a", "Fresh", false)},
		cursorNow: "999",
	}

	adapter := NewEmailAdapter(provider, conns, cursors)

	items, err := adapter.Fetch(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, provider.listSinceCalls)
	assert.Equal(t, 1, provider.fullResyncCalls)

	// The stale cursor was replaced with a fresh anchor.
	cursor, err := cursors.GetCursor("user-1", domain.SourceEmail)
	require.NoError(t, err)
	assert.Equal(t, "999", cursor.Position)
}

func TestEmailAdapter_ProviderErrorPropagates(t *testing.T) {
	conns := newFakeConnectionRepo()
	conns.put("user-1", conndomain.ProviderGoogle, conndomain.ScopeGmailReadonly)
	cursors := newFakeCursorRepo()
	require.NoError(t, cursors.SetCursor("user-1", domain.SourceEmail, "50"))

	provider := &fakeEmailProvider{changesErr: domain.ErrTransientProvider}

	adapter := NewEmailAdapter(provider, conns, cursors)

	_, err := adapter.Fetch(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrTransientProvider)

	// The cursor must survive a failed run untouched.
	cursor, err := cursors.GetCursor("user-1", domain.SourceEmail)
	require.NoError(t, err)
	assert.Equal(t, "50", cursor.Position)
}

func TestEmailAdapter_ArchivedFlagClearedOnFetch(t *testing.T) {
	conns := newFakeConnectionRepo()
	conns.put("user-1", conndomain.ProviderGoogle, conndomain.ScopeGmailReadonly)
	provider := &fakeEmailProvider{
		recent:    []domain.InboxMessage{msg("a", "Back in inbox", false)},
		cursorNow: "1",
	}

	adapter := NewEmailAdapter(provider, conns, newFakeCursorRepo())

	items, err := adapter.Fetch(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Metadata.Email.IsArchived)
}
