package usecase

import (
	"context"
	"fmt"
	"log"

	conndomain "pulseboard-backend/internal/connection/domain"
	connrepo "pulseboard-backend/internal/connection/repository"
	"pulseboard-backend/internal/triage/domain"
	"pulseboard-backend/internal/triage/repository"
)

// fullSyncWindow is how many recent and how many starred messages a full
// resync pulls. The two sets are unioned by message ID.
const fullSyncWindow = 25

// EmailAdapter sources inbox messages through the incremental cursor
// protocol: changes-since when a cursor exists, full resync when it does not
// or when the provider reports it expired.
type EmailAdapter struct {
	provider    domain.EmailProvider
	connections connrepo.ConnectionRepository
	cursors     repository.SyncCursorRepository
}

func NewEmailAdapter(provider domain.EmailProvider, connections connrepo.ConnectionRepository, cursors repository.SyncCursorRepository) *EmailAdapter {
	return &EmailAdapter{
		provider:    provider,
		connections: connections,
		cursors:     cursors,
	}
}

func (a *EmailAdapter) Source() domain.Source {
	return domain.SourceEmail
}

func (a *EmailAdapter) Fetch(ctx context.Context, userID string) ([]domain.CandidateItem, error) {
	cred, err := resolveCredential(a.connections, userID, conndomain.ProviderGoogle, conndomain.ScopeGmailReadonly)
	if err != nil {
		return nil, err
	}

	cursor, err := a.cursors.GetCursor(userID, domain.SourceEmail)
	if err != nil {
		return nil, fmt.Errorf("%w: loading email cursor: %v", domain.ErrTransientProvider, err)
	}

	if cursor != nil {
		changes, err := a.provider.ListSince(ctx, cred, cursor.Position)
		if err != nil {
			return nil, err
		}
		if !changes.Expired {
			if changes.NewCursor != "" && changes.NewCursor != cursor.Position {
				if err := a.cursors.SetCursor(userID, domain.SourceEmail, changes.NewCursor); err != nil {
					return nil, fmt.Errorf("%w: saving email cursor: %v", domain.ErrTransientProvider, err)
				}
			}
			return normalizeMessages(changes.Messages), nil
		}
		log.Printf("[EmailAdapter] Cursor expired for user %s, falling back to full resync", userID)
	}

	return a.fullResync(ctx, userID, cred)
}

// fullResync pulls the newest inbox messages plus the newest starred messages
// and unions them by ID. The starred flag wins on overlap so a starred inbox
// message is never reported unstarred.
func (a *EmailAdapter) fullResync(ctx context.Context, userID string, cred domain.Credential) ([]domain.CandidateItem, error) {
	recent, err := a.provider.ListRecent(ctx, cred, fullSyncWindow)
	if err != nil {
		return nil, err
	}
	starred, err := a.provider.ListStarred(ctx, cred, fullSyncWindow)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(recent))
	union := make([]domain.InboxMessage, 0, len(recent)+len(starred))
	for _, m := range recent {
		index[m.ID] = len(union)
		union = append(union, m)
	}
	for _, m := range starred {
		if i, ok := index[m.ID]; ok {
			union[i].IsStarred = true
			continue
		}
		union = append(union, m)
	}

	// Anchor the cursor at the mailbox's current position so the next run
	// can go back to incremental fetches.
	position, err := a.provider.CurrentCursor(ctx, cred)
	if err != nil {
		return nil, err
	}
	if err := a.cursors.SetCursor(userID, domain.SourceEmail, position); err != nil {
		return nil, fmt.Errorf("%w: saving email cursor: %v", domain.ErrTransientProvider, err)
	}

	return normalizeMessages(union), nil
}

// normalizeMessages converts provider messages into candidates. IsArchived is
// always false here: a message surfaced by an inbox fetch is in the inbox, and
// the queue upsert propagates that onto any stale pending row.
func normalizeMessages(messages []domain.InboxMessage) []domain.CandidateItem {
	items := make([]domain.CandidateItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, domain.CandidateItem{
			Source:   domain.SourceEmail,
			SourceID: m.ID,
			Title:    m.Subject,
			Snippet:  m.Preview,
			Metadata: domain.SourceMetadata{
				Email: &domain.EmailMetadata{
					From:       m.From,
					Subject:    m.Subject,
					ReceivedAt: m.ReceivedAt,
					IsStarred:  m.IsStarred,
					IsArchived: false,
				},
			},
		})
	}
	return items
}
