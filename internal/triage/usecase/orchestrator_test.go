package usecase

import (
	"context"
	"testing"
	"time"

	"pulseboard-backend/internal/triage/domain"
	"pulseboard-backend/internal/triage/scoring"
	"pulseboard-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scorerFunc func(ctx context.Context, itemText string) (*ai.UrgencyResult, error)

func (f scorerFunc) ScoreUrgency(ctx context.Context, itemText string) (*ai.UrgencyResult, error) {
	return f(ctx, itemText)
}

func fixedScorer(score int) *scoring.SemanticScorer {
	return scoring.NewSemanticScorer(scorerFunc(func(context.Context, string) (*ai.UrgencyResult, error) {
		return &ai.UrgencyResult{Score: score, Reasoning: "stub"}, nil
	}))
}

func taskCandidate(id string, priority int, due *time.Time) domain.CandidateItem {
	return domain.CandidateItem{
		Source:   domain.SourceTaskManager,
		SourceID: id,
		Title:    "task " + id,
		Metadata: domain.SourceMetadata{Task: &domain.TaskMetadata{Priority: priority, DueDate: due}},
	}
}

func emailItem(id string) domain.CandidateItem {
	return domain.CandidateItem{
		Source:   domain.SourceEmail,
		SourceID: id,
		Title:    "mail " + id,
		Snippet:  "preview",
		Metadata: domain.SourceMetadata{Email: &domain.EmailMetadata{From: "a@b.com", Subject: "mail " + id}},
	}
}

func TestRunTriageSync_AdmissionThreshold(t *testing.T) {
	queue := newFakeQueueRepo()
	overdue := time.Now().AddDate(0, 0, -1)

	uc := NewTriageUsecase(queue, fixedScorer(50),
		&fakeAdapter{source: domain.SourceTaskManager, items: []domain.CandidateItem{
			taskCandidate("hot", 4, &overdue), // 95, admitted
			taskCandidate("cold", 1, nil),     // 20, skipped
		}},
	)

	result := uc.RunTriageSync(context.Background(), "user-1")

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	entry, err := queue.FindByIdentity("user-1", domain.SourceTaskManager, "hot")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 95, entry.Score)
	assert.Equal(t, domain.StatusPending, entry.Status)

	missing, err := queue.FindByIdentity("user-1", domain.SourceTaskManager, "cold")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRunTriageSync_PartialFailureIsolation(t *testing.T) {
	queue := newFakeQueueRepo()
	overdue := time.Now().AddDate(0, 0, -1)

	uc := NewTriageUsecase(queue, fixedScorer(50),
		&fakeAdapter{source: domain.SourceTaskManager, items: []domain.CandidateItem{taskCandidate("t1", 4, &overdue)}},
		&fakeAdapter{source: domain.SourceCalendar, err: domain.ErrTransientProvider},
	)

	result := uc.RunTriageSync(context.Background(), "user-1")

	assert.Equal(t, 1, result.Added, "healthy source still lands its items")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Calendar:")
}

func TestRunTriageSync_SoftSkipsAreSilent(t *testing.T) {
	uc := NewTriageUsecase(newFakeQueueRepo(), fixedScorer(50),
		&fakeAdapter{source: domain.SourceTaskManager, err: domain.ErrNotConnected},
		&fakeAdapter{source: domain.SourceTaskList, err: domain.ErrInsufficientScope},
	)

	result := uc.RunTriageSync(context.Background(), "user-1")

	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)
}

func TestRunTriageSync_SemanticScoringForEmail(t *testing.T) {
	queue := newFakeQueueRepo()

	uc := NewTriageUsecase(queue, fixedScorer(72),
		&fakeAdapter{source: domain.SourceEmail, items: []domain.CandidateItem{emailItem("m1")}},
	)

	result := uc.RunTriageSync(context.Background(), "user-1")

	assert.Equal(t, 1, result.Added)
	entry, err := queue.FindByIdentity("user-1", domain.SourceEmail, "m1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 72, entry.Score)
	assert.Equal(t, "stub", entry.Reasoning)
}

func TestRunTriageSync_RerunIsIdempotent(t *testing.T) {
	queue := newFakeQueueRepo()
	overdue := time.Now().AddDate(0, 0, -1)
	adapter := &fakeAdapter{source: domain.SourceTaskManager, items: []domain.CandidateItem{taskCandidate("t1", 4, &overdue)}}

	uc := NewTriageUsecase(queue, fixedScorer(50), adapter)

	uc.RunTriageSync(context.Background(), "user-1")
	uc.RunTriageSync(context.Background(), "user-1")

	entries, total, err := queue.FindByUser("user-1", nil, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "same identity never duplicates")
	assert.Len(t, entries, 1)
}

func TestRunTriageSync_ResyncRefreshesPendingEntry(t *testing.T) {
	queue := newFakeQueueRepo()
	overdue := time.Now().AddDate(0, 0, -1)

	emailAdapter := &fakeAdapter{source: domain.SourceEmail, items: []domain.CandidateItem{emailItem("m1")}}
	taskAdapter := &fakeAdapter{source: domain.SourceTaskManager, items: []domain.CandidateItem{taskCandidate("t1", 3, &overdue)}}

	uc := NewTriageUsecase(queue, fixedScorer(72), emailAdapter, taskAdapter)
	uc.RunTriageSync(context.Background(), "user-1")

	before, err := queue.FindByIdentity("user-1", domain.SourceTaskManager, "t1")
	require.NoError(t, err)
	require.NotNil(t, before)
	assert.Equal(t, 85, before.Score) // high priority, overdue

	// The same items come back changed on the next sync: the email got
	// starred and the task was bumped to urgent.
	starred := emailItem("m1")
	starred.Snippet = "updated preview"
	starred.Metadata.Email.IsStarred = true
	emailAdapter.items = []domain.CandidateItem{starred}

	bumped := taskCandidate("t1", 4, &overdue)
	bumped.Title = "task t1 (escalated)"
	taskAdapter.items = []domain.CandidateItem{bumped}

	uc.RunTriageSync(context.Background(), "user-1")

	entries, total, err := queue.FindByUser("user-1", nil, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "refresh must not duplicate")
	assert.Len(t, entries, 2)

	mail, err := queue.FindByIdentity("user-1", domain.SourceEmail, "m1")
	require.NoError(t, err)
	require.NotNil(t, mail)
	assert.Equal(t, domain.StatusPending, mail.Status)
	assert.Equal(t, "updated preview", mail.Snippet)
	require.NotNil(t, mail.Metadata.Email)
	assert.True(t, mail.Metadata.Email.IsStarred, "metadata is refreshed in place")

	task, err := queue.FindByIdentity("user-1", domain.SourceTaskManager, "t1")
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, "task t1 (escalated)", task.Title)
	assert.Equal(t, 95, task.Score) // urgent priority, overdue
}

func TestRunTriageSync_ReviewedEntriesAreNotResurrected(t *testing.T) {
	queue := newFakeQueueRepo()
	overdue := time.Now().AddDate(0, 0, -1)
	adapter := &fakeAdapter{source: domain.SourceTaskManager, items: []domain.CandidateItem{taskCandidate("t1", 4, &overdue)}}

	uc := NewTriageUsecase(queue, fixedScorer(50), adapter)

	uc.RunTriageSync(context.Background(), "user-1")

	entry, err := queue.FindByIdentity("user-1", domain.SourceTaskManager, "t1")
	require.NoError(t, err)
	require.NotNil(t, entry)

	applied, err := uc.ReviewEntry("user-1", entry.ID, domain.StatusDismissed)
	require.NoError(t, err)
	assert.True(t, applied)

	// A later sync sees the same item again; the dismissal must stick.
	uc.RunTriageSync(context.Background(), "user-1")

	after, err := queue.FindByIdentity("user-1", domain.SourceTaskManager, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDismissed, after.Status)
}

func TestReviewEntry_SecondDecisionRejected(t *testing.T) {
	queue := newFakeQueueRepo()
	overdue := time.Now().AddDate(0, 0, -1)
	uc := NewTriageUsecase(queue, fixedScorer(50),
		&fakeAdapter{source: domain.SourceTaskManager, items: []domain.CandidateItem{taskCandidate("t1", 4, &overdue)}},
	)
	uc.RunTriageSync(context.Background(), "user-1")

	entry, err := queue.FindByIdentity("user-1", domain.SourceTaskManager, "t1")
	require.NoError(t, err)

	applied, err := uc.ReviewEntry("user-1", entry.ID, domain.StatusApproved)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = uc.ReviewEntry("user-1", entry.ID, domain.StatusDismissed)
	require.NoError(t, err)
	assert.False(t, applied, "review decisions are final")
}

func TestReviewEntry_RejectsNonDecisionStatus(t *testing.T) {
	uc := NewTriageUsecase(newFakeQueueRepo(), fixedScorer(50))

	_, err := uc.ReviewEntry("user-1", "whatever", domain.StatusPending)
	assert.Error(t, err)
}

func TestRunTriageSync_EmailRateLimitAggregated(t *testing.T) {
	queue := newFakeQueueRepo()
	limited := scoring.NewSemanticScorer(scorerFunc(func(context.Context, string) (*ai.UrgencyResult, error) {
		return nil, ai.ErrRateLimited
	}))

	uc := NewTriageUsecase(queue, limited,
		&fakeAdapter{source: domain.SourceEmail, items: []domain.CandidateItem{emailItem("m1"), emailItem("m2")}},
	)

	result := uc.RunTriageSync(context.Background(), "user-1")

	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Gmail:")
	assert.Contains(t, result.Errors[0], "rate limited")
}
