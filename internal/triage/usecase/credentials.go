package usecase

import (
	"fmt"

	conndomain "pulseboard-backend/internal/connection/domain"
	connrepo "pulseboard-backend/internal/connection/repository"
	"pulseboard-backend/internal/triage/domain"

	"golang.org/x/oauth2"
)

// resolveCredential turns a stored connection into a live Credential, applying
// the soft-skip rules: no connection means ErrNotConnected, a grant missing
// the required scope means ErrInsufficientScope. Token refreshes performed by
// provider clients are written back through OnRefresh.
func resolveCredential(connections connrepo.ConnectionRepository, userID string, provider conndomain.Provider, scope string) (domain.Credential, error) {
	conn, err := connections.FindByUserAndProvider(userID, provider)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%w: loading %s connection: %v", domain.ErrTransientProvider, provider, err)
	}
	if conn == nil || conn.AccessToken == "" {
		return domain.Credential{}, domain.ErrNotConnected
	}
	if scope != "" && !conn.HasScope(scope) {
		return domain.Credential{}, domain.ErrInsufficientScope
	}

	connID := conn.ID
	return domain.Credential{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		OnRefresh: func(token *oauth2.Token) error {
			refresh := token.RefreshToken
			if refresh == "" {
				refresh = conn.RefreshToken
			}
			return connections.UpdateTokens(connID, token.AccessToken, refresh, token.Expiry)
		},
	}, nil
}
