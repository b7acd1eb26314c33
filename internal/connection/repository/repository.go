package repository

import (
	"time"

	"pulseboard-backend/internal/connection/domain"
)

// ConnectionRepository defines the credential store. FindByUserAndProvider
// returns nil when the user has not connected the provider.
type ConnectionRepository interface {
	FindByUserAndProvider(userID string, provider domain.Provider) (*domain.Connection, error)
	FindByAccountEmail(email string, provider domain.Provider) (*domain.Connection, error)

	// ListByUser returns all of one user's connections, tokens decrypted.
	ListByUser(userID string) ([]domain.Connection, error)

	// ListConnectedUserIDs returns the distinct users with at least one
	// connection, for the background sync scheduler.
	ListConnectedUserIDs() ([]string, error)

	Upsert(conn *domain.Connection) error

	// UpdateTokens persists a refreshed OAuth token pair.
	UpdateTokens(id, accessToken, refreshToken string, expiry time.Time) error
}
