package usecase

import (
	"context"

	conndomain "pulseboard-backend/internal/connection/domain"
	connrepo "pulseboard-backend/internal/connection/repository"
	"pulseboard-backend/internal/triage/domain"
)

// ListAdapter sources incomplete items from the secondary task list.
type ListAdapter struct {
	provider    domain.TaskListProvider
	connections connrepo.ConnectionRepository
}

func NewListAdapter(provider domain.TaskListProvider, connections connrepo.ConnectionRepository) *ListAdapter {
	return &ListAdapter{provider: provider, connections: connections}
}

func (a *ListAdapter) Source() domain.Source {
	return domain.SourceTaskList
}

func (a *ListAdapter) Fetch(ctx context.Context, userID string) ([]domain.CandidateItem, error) {
	cred, err := resolveCredential(a.connections, userID, conndomain.ProviderGoogle, conndomain.ScopeTasksReadonly)
	if err != nil {
		return nil, err
	}

	listItems, err := a.provider.ListIncomplete(ctx, cred)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CandidateItem, 0, len(listItems))
	for _, li := range listItems {
		items = append(items, domain.CandidateItem{
			Source:   domain.SourceTaskList,
			SourceID: li.ID,
			Title:    li.Title,
			Snippet:  li.Notes,
			Metadata: domain.SourceMetadata{
				ListItem: &domain.ListItemMetadata{
					Due:   li.Due,
					Notes: li.Notes,
				},
			},
		})
	}
	return items, nil
}
