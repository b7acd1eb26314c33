package scoring

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pulseboard-backend/internal/triage/domain"
	"pulseboard-backend/pkg/ai"

	"golang.org/x/time/rate"
)

const (
	// SemanticBatchSize bounds how many scoring calls run concurrently.
	// Batches run sequentially so the AI provider's rate limit is respected.
	SemanticBatchSize = 5

	// defaultSemanticScore is used when the model's reply cannot be parsed.
	defaultSemanticScore = 50
)

// SemanticOutcome is the per-item result of a batch scoring pass. A non-nil
// Err means the item is skipped for this run, it does not fail the batch.
type SemanticOutcome struct {
	Score *domain.TriageScore
	Err   error
}

// SemanticScorer scores unstructured text (email headers + preview) through
// the AI urgency-scoring capability.
type SemanticScorer struct {
	scorer  ai.UrgencyScorer
	limiter *rate.Limiter
}

// NewSemanticScorer creates a scorer with a conservative request pacer.
func NewSemanticScorer(scorer ai.UrgencyScorer) *SemanticScorer {
	return &SemanticScorer{
		scorer: scorer,
		// 2 req/s sustained, bursts up to one batch
		limiter: rate.NewLimiter(rate.Limit(2.0), SemanticBatchSize),
	}
}

// ScoreBatch scores candidates in chunks of SemanticBatchSize: concurrent
// within a chunk, sequential across chunks. Outcomes are positionally
// aligned with items.
func (s *SemanticScorer) ScoreBatch(ctx context.Context, items []domain.CandidateItem) []SemanticOutcome {
	outcomes := make([]SemanticOutcome, len(items))

	for start := 0; start < len(items); start += SemanticBatchSize {
		end := start + SemanticBatchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = s.scoreOne(ctx, items[i])
			}(i)
		}
		wg.Wait()
	}

	return outcomes
}

func (s *SemanticScorer) scoreOne(ctx context.Context, item domain.CandidateItem) SemanticOutcome {
	if err := s.limiter.Wait(ctx); err != nil {
		return SemanticOutcome{Err: err}
	}

	result, err := s.scorer.ScoreUrgency(ctx, itemText(item))
	if err != nil {
		if errors.Is(err, ai.ErrMalformedResponse) {
			// Parse failures never abort anything: default the score.
			return SemanticOutcome{Score: &domain.TriageScore{
				Value:     defaultSemanticScore,
				Reasoning: "Could not parse AI response",
			}}
		}
		if errors.Is(err, ai.ErrRateLimited) {
			return SemanticOutcome{Err: fmt.Errorf("%w: %v", domain.ErrRateLimited, err)}
		}
		return SemanticOutcome{Err: err}
	}

	return SemanticOutcome{Score: &domain.TriageScore{
		Value:     domain.ClampScore(result.Score),
		Reasoning: result.Reasoning,
	}}
}

// itemText renders the fields the rubric expects. Only header metadata is
// available; that is deliberate.
func itemText(item domain.CandidateItem) string {
	from := ""
	subject := item.Title
	if item.Metadata.Email != nil {
		from = item.Metadata.Email.From
		if item.Metadata.Email.Subject != "" {
			subject = item.Metadata.Email.Subject
		}
	}
	return fmt.Sprintf("From: %s\nSubject: %s\nPreview: %s", from, subject, item.Snippet)
}
