package scoring

import (
	"context"
	"errors"
	"testing"

	"pulseboard-backend/internal/triage/domain"
	"pulseboard-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scorerFunc adapts a function to the ai.UrgencyScorer interface.
type scorerFunc func(ctx context.Context, itemText string) (*ai.UrgencyResult, error)

func (f scorerFunc) ScoreUrgency(ctx context.Context, itemText string) (*ai.UrgencyResult, error) {
	return f(ctx, itemText)
}

func emailCandidate(id, subject string) domain.CandidateItem {
	return domain.CandidateItem{
		Source:   domain.SourceEmail,
		SourceID: id,
		Title:    subject,
		Snippet:  "preview of " + subject,
		Metadata: domain.SourceMetadata{Email: &domain.EmailMetadata{From: "a@b.com", Subject: subject}},
	}
}

func TestScoreBatch_ClampsOutOfRangeScores(t *testing.T) {
	scores := map[string]int{"high": 150, "low": -5}
	scorer := NewSemanticScorer(scorerFunc(func(_ context.Context, text string) (*ai.UrgencyResult, error) {
		for k, v := range scores {
			if text == "From: a@b.com\nSubject: "+k+"\nPreview: preview of "+k {
				return &ai.UrgencyResult{Score: v, Reasoning: "reason"}, nil
			}
		}
		return &ai.UrgencyResult{Score: 50}, nil
	}))

	outcomes := scorer.ScoreBatch(context.Background(), []domain.CandidateItem{
		emailCandidate("1", "high"),
		emailCandidate("2", "low"),
	})

	require.Len(t, outcomes, 2)
	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, 100, outcomes[0].Score.Value)
	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, 0, outcomes[1].Score.Value)
}

func TestScoreBatch_MalformedResponseDefaultsTo50(t *testing.T) {
	scorer := NewSemanticScorer(scorerFunc(func(context.Context, string) (*ai.UrgencyResult, error) {
		return nil, ai.ErrMalformedResponse
	}))

	outcomes := scorer.ScoreBatch(context.Background(), []domain.CandidateItem{emailCandidate("1", "x")})

	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, 50, outcomes[0].Score.Value)
	assert.Equal(t, "Could not parse AI response", outcomes[0].Score.Reasoning)
}

func TestScoreBatch_RateLimitedMapsToDomainError(t *testing.T) {
	scorer := NewSemanticScorer(scorerFunc(func(context.Context, string) (*ai.UrgencyResult, error) {
		return nil, ai.ErrRateLimited
	}))

	outcomes := scorer.ScoreBatch(context.Background(), []domain.CandidateItem{emailCandidate("1", "x")})

	require.Len(t, outcomes, 1)
	require.Error(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[0].Err, domain.ErrRateLimited)
	assert.Nil(t, outcomes[0].Score)
}

func TestScoreBatch_ProviderErrorSkipsOnlyThatItem(t *testing.T) {
	boom := errors.New("upstream exploded")
	scorer := NewSemanticScorer(scorerFunc(func(_ context.Context, text string) (*ai.UrgencyResult, error) {
		if text == "From: a@b.com\nSubject: bad\nPreview: preview of bad" {
			return nil, boom
		}
		return &ai.UrgencyResult{Score: 70, Reasoning: "fine"}, nil
	}))

	outcomes := scorer.ScoreBatch(context.Background(), []domain.CandidateItem{
		emailCandidate("1", "good"),
		emailCandidate("2", "bad"),
		emailCandidate("3", "good"),
	})

	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, 70, outcomes[0].Score.Value)
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.NoError(t, outcomes[2].Err)
}

func TestScoreBatch_EmptyInput(t *testing.T) {
	called := false
	scorer := NewSemanticScorer(scorerFunc(func(context.Context, string) (*ai.UrgencyResult, error) {
		called = true
		return nil, nil
	}))

	outcomes := scorer.ScoreBatch(context.Background(), nil)
	assert.Empty(t, outcomes)
	assert.False(t, called)
}
