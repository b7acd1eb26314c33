package usecase

import (
	"context"

	conndomain "pulseboard-backend/internal/connection/domain"
	connrepo "pulseboard-backend/internal/connection/repository"
	"pulseboard-backend/internal/triage/domain"
)

// TaskAdapter sources active tasks from the connected task manager.
type TaskAdapter struct {
	provider    domain.TaskProvider
	connections connrepo.ConnectionRepository
}

func NewTaskAdapter(provider domain.TaskProvider, connections connrepo.ConnectionRepository) *TaskAdapter {
	return &TaskAdapter{provider: provider, connections: connections}
}

func (a *TaskAdapter) Source() domain.Source {
	return domain.SourceTaskManager
}

func (a *TaskAdapter) Fetch(ctx context.Context, userID string) ([]domain.CandidateItem, error) {
	cred, err := resolveCredential(a.connections, userID, conndomain.ProviderTodoist, "")
	if err != nil {
		return nil, err
	}

	tasks, err := a.provider.ListActiveTasks(ctx, cred)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CandidateItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, domain.CandidateItem{
			Source:   domain.SourceTaskManager,
			SourceID: t.ID,
			Title:    t.Content,
			Snippet:  t.Description,
			Metadata: domain.SourceMetadata{
				Task: &domain.TaskMetadata{
					Priority:  t.Priority,
					DueDate:   t.Due,
					ProjectID: t.ProjectID,
				},
			},
		})
	}
	return items, nil
}
