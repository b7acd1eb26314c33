package usecase

import (
	"context"

	conndomain "pulseboard-backend/internal/connection/domain"
	connrepo "pulseboard-backend/internal/connection/repository"
	"pulseboard-backend/internal/triage/domain"
)

// calendarWindowDays is the lookahead window for upcoming events.
const calendarWindowDays = 7

// CalendarAdapter sources upcoming events from the user's primary calendar.
type CalendarAdapter struct {
	provider    domain.CalendarProvider
	connections connrepo.ConnectionRepository
}

func NewCalendarAdapter(provider domain.CalendarProvider, connections connrepo.ConnectionRepository) *CalendarAdapter {
	return &CalendarAdapter{provider: provider, connections: connections}
}

func (a *CalendarAdapter) Source() domain.Source {
	return domain.SourceCalendar
}

func (a *CalendarAdapter) Fetch(ctx context.Context, userID string) ([]domain.CandidateItem, error) {
	cred, err := resolveCredential(a.connections, userID, conndomain.ProviderGoogle, conndomain.ScopeCalendarReadonly)
	if err != nil {
		return nil, err
	}

	events, err := a.provider.ListUpcoming(ctx, cred, calendarWindowDays)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CandidateItem, 0, len(events))
	for _, e := range events {
		items = append(items, domain.CandidateItem{
			Source:   domain.SourceCalendar,
			SourceID: e.ID,
			Title:    e.Summary,
			Snippet:  truncate(e.Description, 200),
			Metadata: domain.SourceMetadata{
				Event: &domain.EventMetadata{
					StartTime: e.StartTime,
					Organizer: e.Organizer,
				},
			},
		})
	}
	return items, nil
}

// truncate cuts on rune boundaries so multi-byte text never yields an
// invalid-UTF-8 snippet.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
