package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	triagedomain "pulseboard-backend/internal/triage/domain"
)

const baseURL = "https://api.todoist.com/rest/v2"

type Service struct {
	httpClient *http.Client
}

func NewService() *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// restTask mirrors the Todoist REST v2 task shape, only the fields we read.
type restTask struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"` // 1 = normal .. 4 = urgent
	ProjectID   string   `json:"project_id"`
	Due         *restDue `json:"due"`
}

type restDue struct {
	Date     string `json:"date"`     // "2006-01-02"
	Datetime string `json:"datetime"` // RFC3339, optional
}

// ListActiveTasks returns the user's active (uncompleted) tasks.
func (s *Service) ListActiveTasks(ctx context.Context, cred triagedomain.Credential) ([]triagedomain.ProviderTask, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/tasks", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", triagedomain.ErrTransientProvider, err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", triagedomain.ErrTransientProvider, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: invalid Todoist token", triagedomain.ErrNotConnected)
	case http.StatusForbidden:
		return nil, fmt.Errorf("%w: Todoist token lacks access", triagedomain.ErrInsufficientScope)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: Todoist", triagedomain.ErrRateLimited)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: Todoist API error (status %d): %s", triagedomain.ErrTransientProvider, resp.StatusCode, string(body))
	}

	var raw []restTask
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: unexpected Todoist response: %v", triagedomain.ErrTransientProvider, err)
	}

	tasks := make([]triagedomain.ProviderTask, 0, len(raw))
	for _, t := range raw {
		tasks = append(tasks, triagedomain.ProviderTask{
			ID:          t.ID,
			Content:     t.Content,
			Description: t.Description,
			Priority:    t.Priority,
			Due:         parseDue(t.Due),
			ProjectID:   t.ProjectID,
		})
	}
	return tasks, nil
}

func parseDue(due *restDue) *time.Time {
	if due == nil {
		return nil
	}
	if due.Datetime != "" {
		if t, err := time.Parse(time.RFC3339, due.Datetime); err == nil {
			return &t
		}
	}
	if due.Date != "" {
		if t, err := time.Parse("2006-01-02", due.Date); err == nil {
			return &t
		}
	}
	return nil
}
