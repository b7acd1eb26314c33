package usecase

import (
	"fmt"
	"time"

	"pulseboard-backend/internal/connection/domain"
	"pulseboard-backend/internal/connection/repository"
)

// ConnectionSummary is the token-free view of a connection returned to clients.
type ConnectionSummary struct {
	Provider     domain.Provider `json:"provider"`
	AccountEmail string          `json:"account_email"`
	Scopes       string          `json:"scopes"`
	ConnectedAt  time.Time       `json:"connected_at"`
}

// ConnectionUsecase manages the credentials users connect to the dashboard.
type ConnectionUsecase interface {
	Connect(userID string, provider domain.Provider, accountEmail, accessToken, refreshToken, scopes string, expiry time.Time) error
	List(userID string) ([]ConnectionSummary, error)
}

type connectionUsecase struct {
	repo repository.ConnectionRepository
}

func NewConnectionUsecase(repo repository.ConnectionRepository) ConnectionUsecase {
	return &connectionUsecase{repo: repo}
}

func (u *connectionUsecase) Connect(userID string, provider domain.Provider, accountEmail, accessToken, refreshToken, scopes string, expiry time.Time) error {
	switch provider {
	case domain.ProviderGoogle, domain.ProviderTodoist:
	default:
		return fmt.Errorf("unknown provider: %s", provider)
	}
	if accessToken == "" {
		return fmt.Errorf("access token required")
	}

	return u.repo.Upsert(&domain.Connection{
		UserID:       userID,
		Provider:     provider,
		AccountEmail: accountEmail,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Scopes:       scopes,
		TokenExpiry:  expiry,
	})
}

func (u *connectionUsecase) List(userID string) ([]ConnectionSummary, error) {
	conns, err := u.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConnectionSummary, 0, len(conns))
	for _, c := range conns {
		summaries = append(summaries, ConnectionSummary{
			Provider:     c.Provider,
			AccountEmail: c.AccountEmail,
			Scopes:       c.Scopes,
			ConnectedAt:  c.CreatedAt,
		})
	}
	return summaries, nil
}
