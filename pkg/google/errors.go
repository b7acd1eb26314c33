package google

import (
	"errors"
	"fmt"
	"net/http"

	"pulseboard-backend/internal/triage/domain"

	"google.golang.org/api/googleapi"
)

// MapError converts a Google API error into the shared adapter taxonomy.
// 404s are deliberately not mapped here: their meaning is call-specific
// (Gmail returns 404 for an expired historyId) and callers check them first.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %v", domain.ErrTransientProvider, err)
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: invalid credentials", domain.ErrNotConnected)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrInsufficientScope, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, gerr.Message)
	default:
		return fmt.Errorf("%w: %v", domain.ErrTransientProvider, err)
	}
}

// IsHistoryExpired returns true when Gmail no longer accepts a historyId.
// Gmail signals this with a 404 on history.list.
func IsHistoryExpired(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound
	}
	return false
}

// IsSyncTokenExpired returns true for Calendar's 410 GONE, which means the
// client must drop its sync token and resync.
func IsSyncTokenExpired(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusGone
	}
	return false
}
