package ai

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseUrgencyResponse extracts a {"score": n, "reasoning": "..."} object
// from raw model output. Models often wrap JSON in markdown fences or
// surround it with prose, so we cut out the first balanced-looking object
// before unmarshalling.
func parseUrgencyResponse(raw string) (*UrgencyResult, error) {
	text := strings.TrimSpace(raw)

	// Strip markdown code fences if present
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Cut to the first top-level JSON object
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, ErrMalformedResponse
	}
	text = text[start : end+1]

	// score may come back as a float or a quoted number depending on the model
	var parsed struct {
		Score     json.RawMessage `json:"score"`
		Reasoning string          `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, ErrMalformedResponse
	}
	scoreText := strings.Trim(strings.TrimSpace(string(parsed.Score)), `"`)
	scoreFloat, err := strconv.ParseFloat(scoreText, 64)
	if err != nil {
		return nil, ErrMalformedResponse
	}

	return &UrgencyResult{
		Score:     int(scoreFloat),
		Reasoning: strings.TrimSpace(parsed.Reasoning),
	}, nil
}
