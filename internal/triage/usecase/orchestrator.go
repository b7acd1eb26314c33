package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pulseboard-backend/internal/triage/domain"
	"pulseboard-backend/internal/triage/repository"
	"pulseboard-backend/internal/triage/scoring"

	"github.com/google/uuid"
)

// triggerTimeout bounds background syncs kicked off by push notifications or
// the scheduler, detached from any request context.
const triggerTimeout = 2 * time.Minute

type triageUsecase struct {
	adapters  []SourceAdapter
	semantic  *scoring.SemanticScorer
	queueRepo repository.TriageQueueRepository

	// userLocks serializes overlapping sync runs per user so a manual sync,
	// the scheduler and a push-triggered sync cannot race each other's
	// cursor updates. One *sync.Mutex per user ID.
	userLocks sync.Map
}

func NewTriageUsecase(queueRepo repository.TriageQueueRepository, semantic *scoring.SemanticScorer, adapters ...SourceAdapter) TriageUsecase {
	return &triageUsecase{
		adapters:  adapters,
		semantic:  semantic,
		queueRepo: queueRepo,
	}
}

func (u *triageUsecase) userLock(userID string) *sync.Mutex {
	lock, _ := u.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (u *triageUsecase) RunTriageSync(ctx context.Context, userID string) *domain.SyncResult {
	lock := u.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	result := &domain.SyncResult{Errors: []string{}}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, adapter := range u.adapters {
		wg.Add(1)
		go func(a SourceAdapter) {
			defer wg.Done()
			added, skipped, errs := u.runPipeline(ctx, userID, a)

			mu.Lock()
			result.Added += added
			result.Skipped += skipped
			result.Errors = append(result.Errors, errs...)
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()

	log.Printf("[TriageSync] user=%s added=%d skipped=%d errors=%d", userID, result.Added, result.Skipped, len(result.Errors))
	return result
}

// runPipeline executes one source's fetch -> score -> admit -> upsert chain.
// A source that is not connected (or not granted) is silently skipped; any
// other fetch failure becomes one prefixed entry in the error list and never
// disturbs the other sources.
func (u *triageUsecase) runPipeline(ctx context.Context, userID string, a SourceAdapter) (added, skipped int, errs []string) {
	source := a.Source()

	items, err := a.Fetch(ctx, userID)
	if err != nil {
		if domain.IsSoftSkip(err) {
			log.Printf("[TriageSync] %s skipped for user %s: %v", source, userID, err)
			return 0, 0, nil
		}
		return 0, 0, []string{fmt.Sprintf("%s: %v", source.DisplayName(), err)}
	}
	if len(items) == 0 {
		return 0, 0, nil
	}

	outcomes := u.scoreItems(ctx, source, items)

	rateLimited := 0
	for i, item := range items {
		outcome := outcomes[i]
		if outcome.Err != nil {
			skipped++
			if errors.Is(outcome.Err, domain.ErrRateLimited) {
				rateLimited++
			} else {
				log.Printf("[TriageSync] scoring %s item %s failed: %v", source, item.SourceID, outcome.Err)
			}
			continue
		}
		if !scoring.Admit(*outcome.Score) {
			skipped++
			continue
		}

		entry := &domain.TriageQueueEntry{
			ID:        uuid.New().String(),
			UserID:    userID,
			Source:    item.Source,
			SourceID:  item.SourceID,
			Title:     item.Title,
			Snippet:   item.Snippet,
			Score:     outcome.Score.Value,
			Reasoning: outcome.Score.Reasoning,
			Metadata:  item.Metadata,
			Status:    domain.StatusPending,
		}
		if err := u.queueRepo.UpsertIfPending(entry); err != nil {
			errs = append(errs, fmt.Sprintf("%s: storing item %s: %v", source.DisplayName(), item.SourceID, err))
			continue
		}
		added++
	}

	if rateLimited > 0 {
		errs = append(errs, fmt.Sprintf("%s: %d items skipped (scoring rate limited)", source.DisplayName(), rateLimited))
	}
	return added, skipped, errs
}

// scoreItems routes email candidates through the semantic scorer and
// everything else through the pure structured scorers.
func (u *triageUsecase) scoreItems(ctx context.Context, source domain.Source, items []domain.CandidateItem) []scoring.SemanticOutcome {
	if source == domain.SourceEmail {
		return u.semantic.ScoreBatch(ctx, items)
	}

	now := time.Now()
	outcomes := make([]scoring.SemanticOutcome, len(items))
	for i, item := range items {
		score, err := structuredScore(item, now)
		if err != nil {
			outcomes[i] = scoring.SemanticOutcome{Err: err}
			continue
		}
		outcomes[i] = scoring.SemanticOutcome{Score: &score}
	}
	return outcomes
}

func structuredScore(item domain.CandidateItem, now time.Time) (domain.TriageScore, error) {
	switch item.Source {
	case domain.SourceTaskManager:
		if item.Metadata.Task == nil {
			return domain.TriageScore{}, fmt.Errorf("%w: task candidate %s has no task metadata", domain.ErrMalformedScore, item.SourceID)
		}
		return scoring.ScoreTask(item.Metadata.Task, now), nil
	case domain.SourceCalendar:
		if item.Metadata.Event == nil {
			return domain.TriageScore{}, fmt.Errorf("%w: event candidate %s has no event metadata", domain.ErrMalformedScore, item.SourceID)
		}
		return scoring.ScoreEvent(item.Metadata.Event, now), nil
	case domain.SourceTaskList:
		if item.Metadata.ListItem == nil {
			return domain.TriageScore{}, fmt.Errorf("%w: list candidate %s has no list metadata", domain.ErrMalformedScore, item.SourceID)
		}
		return scoring.ScoreListItem(item.Metadata.ListItem, now), nil
	default:
		return domain.TriageScore{}, fmt.Errorf("%w: no scorer for source %s", domain.ErrMalformedScore, item.Source)
	}
}

func (u *triageUsecase) TriggerSync(userID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()

		result := u.RunTriageSync(ctx, userID)
		for _, e := range result.Errors {
			log.Printf("[TriageSync] background sync for user %s: %s", userID, e)
		}
	}()
}

func (u *triageUsecase) GetQueue(userID string, status *domain.EntryStatus, limit, offset int) ([]*domain.TriageQueueEntry, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.queueRepo.FindByUser(userID, status, limit, offset)
}

func (u *triageUsecase) ReviewEntry(userID, entryID string, decision domain.EntryStatus) (bool, error) {
	if !decision.IsReviewDecision() {
		return false, fmt.Errorf("invalid review decision: %s", decision)
	}
	return u.queueRepo.SetStatus(userID, entryID, decision)
}
