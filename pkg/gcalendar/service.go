package gcalendar

import (
	"context"
	"fmt"
	"time"

	triagedomain "pulseboard-backend/internal/triage/domain"
	googlex "pulseboard-backend/pkg/google"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
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

func (s *Service) newCalendarClient(ctx context.Context, cred triagedomain.Credential) (*calendar.Service, error) {
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

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %v", err)
	}
	return srv, nil
}

// ListUpcoming returns events on the primary calendar starting within the
// next windowDays days, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, cred triagedomain.Credential, windowDays int) ([]triagedomain.ProviderEvent, error) {
	srv, err := s.newCalendarClient(ctx, cred)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp, err := srv.Events.List("primary").
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.AddDate(0, 0, windowDays).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(50).
		Context(ctx).
		Do()
	if err != nil {
		return nil, googlex.MapError(err)
	}

	events := make([]triagedomain.ProviderEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		start, ok := eventStart(item)
		if !ok {
			continue // all-day events without a concrete start time
		}

		organizer := ""
		if item.Organizer != nil {
			organizer = item.Organizer.Email
		}

		events = append(events, triagedomain.ProviderEvent{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			StartTime:   start,
			Organizer:   organizer,
		})
	}

	return events, nil
}

func eventStart(item *calendar.Event) (time.Time, bool) {
	if item.Start == nil {
		return time.Time{}, false
	}
	if item.Start.DateTime != "" {
		t, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if item.Start.Date != "" {
		t, err := time.Parse("2006-01-02", item.Start.Date)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
