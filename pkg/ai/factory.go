package ai

import (
	"context"
	"fmt"

	"pulseboard-backend/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// geminiScorer adapts the raw Gemini text service to the UrgencyScorer
// interface: it owns prompt construction and response parsing.
type geminiScorer struct {
	svc *gemini.GeminiService
}

func (g *geminiScorer) ScoreUrgency(ctx context.Context, itemText string) (*UrgencyResult, error) {
	raw, err := g.svc.Generate(ctx, Rubric+"\n\n"+itemText)
	if err != nil {
		if isQuotaError(err) {
			return nil, ErrRateLimited
		}
		return nil, err
	}
	return parseUrgencyResponse(raw)
}

// NewUrgencyScorer creates an UrgencyScorer based on the config
// This is the factory function - switch AI provider by changing config.Provider
func NewUrgencyScorer(cfg Config) (UrgencyScorer, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return &geminiScorer{svc: gemini.NewGeminiService(cfg.GeminiAPIKey)}, nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		// Prefer Gemini with Ollama fallback when both are configured
		if cfg.GeminiAPIKey != "" {
			g := &geminiScorer{svc: gemini.NewGeminiService(cfg.GeminiAPIKey)}
			if cfg.OllamaBaseURL != "" {
				return NewFallbackService(g, NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)), nil
			}
			return g, nil
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	}
}
