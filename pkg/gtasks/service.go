package gtasks

import (
	"context"
	"fmt"
	"time"

	triagedomain "pulseboard-backend/internal/triage/domain"
	googlex "pulseboard-backend/pkg/google"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

type Service struct {
	clientID     string
	clientSecret string
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func (s *Service) newTasksClient(ctx context.Context, cred triagedomain.Credential) (*tasks.Service, error) {
	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    "Bearer",
	}
	if cred.RefreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	client := oauth2.NewClient(ctx, config.TokenSource(ctx, token))

	srv, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Tasks service: %v", err)
	}
	return srv, nil
}

// ListIncomplete returns the incomplete items on the user's default task list.
func (s *Service) ListIncomplete(ctx context.Context, cred triagedomain.Credential) ([]triagedomain.ProviderListItem, error) {
	srv, err := s.newTasksClient(ctx, cred)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Tasks.List("@default").
		ShowCompleted(false).
		MaxResults(100).
		Context(ctx).
		Do()
	if err != nil {
		return nil, googlex.MapError(err)
	}

	items := make([]triagedomain.ProviderListItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Title == "" {
			continue
		}

		var due *time.Time
		if item.Due != "" {
			// Google Tasks due dates carry no meaningful time component.
			if t, err := time.Parse(time.RFC3339, item.Due); err == nil {
				due = &t
			}
		}

		items = append(items, triagedomain.ProviderListItem{
			ID:    item.Id,
			Title: item.Title,
			Notes: item.Notes,
			Due:   due,
		})
	}

	return items, nil
}
