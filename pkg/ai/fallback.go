package ai

import (
	"context"
	"errors"
	"log"
	"net"
	"strings"
)

// FallbackService routes urgency scoring across providers:
// Gemini first (better calibration), fallback to Ollama (local, free) when
// Gemini is unreachable or out of quota.
type FallbackService struct {
	gemini UrgencyScorer
	ollama *OllamaService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(gemini UrgencyScorer, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// ScoreUrgency implements UrgencyScorer
func (f *FallbackService) ScoreUrgency(ctx context.Context, itemText string) (*UrgencyResult, error) {
	result, err := f.gemini.ScoreUrgency(ctx, itemText)
	if err == nil {
		return result, nil
	}

	// Malformed output is a model problem, not a transport problem; the
	// caller handles it with a default score. Only reroute infra failures.
	if !isConnectionError(err) && !isQuotaError(err) && !errors.Is(err, ErrRateLimited) {
		return nil, err
	}

	log.Printf("[AI] Gemini scoring failed (%v), falling back to Ollama", err)
	return f.ollama.ScoreUrgency(ctx, itemText)
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors
	if _, ok := err.(net.Error); ok {
		return true
	}

	// Check for common connection error messages
	errStr := err.Error()
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"EOF",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"RESOURCE_EXHAUSTED",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}
