package ai

import (
	"context"
	"errors"
)

// ErrMalformedResponse indicates the model replied with something that could
// not be parsed as a score. Callers are expected to fall back to a default
// score instead of failing the batch.
var ErrMalformedResponse = errors.New("ai: malformed scoring response")

// ErrRateLimited indicates the provider rejected the call for quota reasons.
var ErrRateLimited = errors.New("ai: rate limited")

// UrgencyResult is the parsed model output for one scoring request.
type UrgencyResult struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// UrgencyScorer is the interface for AI urgency scoring of unstructured text.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type UrgencyScorer interface {
	ScoreUrgency(ctx context.Context, itemText string) (*UrgencyResult, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// Rubric is the scoring instruction sent with every request. Providers embed
// it ahead of the item's From/Subject/Preview fields.
const Rubric = `You are an email triage assistant. Rate how urgently the user needs to act on the email below, on a scale of 0 to 100 (0 = ignore, 50 = worth a look today, 100 = drop everything).
Consider deadlines, requests from real people, and time-sensitive commitments. Newsletters, promotions and automated notifications score low.
Respond with ONLY a JSON object, no other text: {"score": <0-100>, "reasoning": "<one short sentence>"}`
