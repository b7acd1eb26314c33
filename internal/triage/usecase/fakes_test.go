package usecase

import (
	"context"
	"sync"
	"time"

	conndomain "pulseboard-backend/internal/connection/domain"
	"pulseboard-backend/internal/triage/domain"

	"github.com/google/uuid"
)

// --- connection repository fake ---

type fakeConnectionRepo struct {
	mu          sync.Mutex
	connections map[string]*conndomain.Connection // keyed by userID+"/"+provider
	updated     []string                          // connection IDs whose tokens were refreshed
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{connections: make(map[string]*conndomain.Connection)}
}

func (r *fakeConnectionRepo) put(userID string, provider conndomain.Provider, scopes string) *conndomain.Connection {
	conn := &conndomain.Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		Provider:    provider,
		AccessToken: "access-" + userID,
		Scopes:      scopes,
	}
	r.connections[userID+"/"+string(provider)] = conn
	return conn
}

func (r *fakeConnectionRepo) FindByUserAndProvider(userID string, provider conndomain.Provider) (*conndomain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connections[userID+"/"+string(provider)], nil
}

func (r *fakeConnectionRepo) FindByAccountEmail(email string, provider conndomain.Provider) (*conndomain.Connection, error) {
	return nil, nil
}

func (r *fakeConnectionRepo) ListByUser(userID string) ([]conndomain.Connection, error) {
	return nil, nil
}

func (r *fakeConnectionRepo) ListConnectedUserIDs() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	var ids []string
	for _, c := range r.connections {
		if _, ok := seen[c.UserID]; !ok {
			seen[c.UserID] = struct{}{}
			ids = append(ids, c.UserID)
		}
	}
	return ids, nil
}

func (r *fakeConnectionRepo) Upsert(conn *conndomain.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[conn.UserID+"/"+string(conn.Provider)] = conn
	return nil
}

func (r *fakeConnectionRepo) UpdateTokens(id, accessToken, refreshToken string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, id)
	return nil
}

// --- cursor repository fake ---

type fakeCursorRepo struct {
	mu      sync.Mutex
	cursors map[string]string // keyed by userID+"/"+source
}

func newFakeCursorRepo() *fakeCursorRepo {
	return &fakeCursorRepo{cursors: make(map[string]string)}
}

func (r *fakeCursorRepo) GetCursor(userID string, source domain.Source) (*domain.SyncCursor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	position, ok := r.cursors[userID+"/"+string(source)]
	if !ok {
		return nil, nil
	}
	return &domain.SyncCursor{UserID: userID, Source: source, Position: position}, nil
}

func (r *fakeCursorRepo) SetCursor(userID string, source domain.Source, position string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursors[userID+"/"+string(source)] = position
	return nil
}

// --- queue repository fake ---

type fakeQueueRepo struct {
	mu      sync.Mutex
	entries map[string]*domain.TriageQueueEntry // keyed by userID+"/"+source+"/"+sourceID
	upserts int
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{entries: make(map[string]*domain.TriageQueueEntry)}
}

func identityKey(userID string, source domain.Source, sourceID string) string {
	return userID + "/" + string(source) + "/" + sourceID
}

func (r *fakeQueueRepo) UpsertIfPending(entry *domain.TriageQueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++

	key := identityKey(entry.UserID, entry.Source, entry.SourceID)
	existing, ok := r.entries[key]
	if !ok {
		copied := *entry
		copied.Status = domain.StatusPending
		r.entries[key] = &copied
		return nil
	}
	if existing.Status != domain.StatusPending {
		return nil
	}
	existing.Title = entry.Title
	existing.Snippet = entry.Snippet
	existing.Score = entry.Score
	existing.Reasoning = entry.Reasoning
	existing.Metadata = entry.Metadata
	return nil
}

func (r *fakeQueueRepo) FindByUser(userID string, status *domain.EntryStatus, limit, offset int) ([]*domain.TriageQueueEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TriageQueueEntry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeQueueRepo) FindByIdentity(userID string, source domain.Source, sourceID string) (*domain.TriageQueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[identityKey(userID, source, sourceID)], nil
}

func (r *fakeQueueRepo) SetStatus(userID, entryID string, status domain.EntryStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.UserID == userID && e.ID == entryID {
			if e.Status != domain.StatusPending {
				return false, nil
			}
			e.Status = status
			now := time.Now()
			e.ReviewedAt = &now
			return true, nil
		}
	}
	return false, nil
}

// --- source adapter fake ---

type fakeAdapter struct {
	source domain.Source
	items  []domain.CandidateItem
	err    error
}

func (a *fakeAdapter) Source() domain.Source {
	return a.source
}

func (a *fakeAdapter) Fetch(ctx context.Context, userID string) ([]domain.CandidateItem, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.items, nil
}

// --- email provider fake ---

type fakeEmailProvider struct {
	recent     []domain.InboxMessage
	starred    []domain.InboxMessage
	changes    *domain.EmailChanges
	changesErr error
	cursorNow  string

	listSinceCalls  int
	fullResyncCalls int
}

func (p *fakeEmailProvider) ListRecent(ctx context.Context, cred domain.Credential, n int64) ([]domain.InboxMessage, error) {
	p.fullResyncCalls++
	return p.recent, nil
}

func (p *fakeEmailProvider) ListStarred(ctx context.Context, cred domain.Credential, n int64) ([]domain.InboxMessage, error) {
	return p.starred, nil
}

func (p *fakeEmailProvider) ListSince(ctx context.Context, cred domain.Credential, cursor string) (*domain.EmailChanges, error) {
	p.listSinceCalls++
	if p.changesErr != nil {
		return nil, p.changesErr
	}
	return p.changes, nil
}

func (p *fakeEmailProvider) CurrentCursor(ctx context.Context, cred domain.Credential) (string, error) {
	return p.cursorNow, nil
}
