package google

import (
	"errors"
	"testing"

	triagedomain "pulseboard-backend/internal/triage/domain"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"unauthorized maps to not connected", 401, triagedomain.ErrNotConnected},
		{"forbidden maps to insufficient scope", 403, triagedomain.ErrInsufficientScope},
		{"quota maps to rate limited", 429, triagedomain.ErrRateLimited},
		{"server error maps to transient", 500, triagedomain.ErrTransientProvider},
		{"not found maps to transient", 404, triagedomain.ErrTransientProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError(&googleapi.Error{Code: tt.code})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapError_NonAPIError(t *testing.T) {
	err := MapError(errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, triagedomain.ErrTransientProvider)
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}

func TestIsHistoryExpired(t *testing.T) {
	assert.True(t, IsHistoryExpired(&googleapi.Error{Code: 404}))
	assert.False(t, IsHistoryExpired(&googleapi.Error{Code: 500}))
	assert.False(t, IsHistoryExpired(nil))
}

func TestIsSyncTokenExpired(t *testing.T) {
	assert.True(t, IsSyncTokenExpired(&googleapi.Error{Code: 410}))
	assert.False(t, IsSyncTokenExpired(&googleapi.Error{Code: 404}))
}
