package domain

import "errors"

// Error taxonomy shared by all source adapters. Adapters never panic or
// partially throw; any failure is mapped onto one of these and returned so
// the orchestrator can isolate it.
var (
	// ErrNotConnected means no credential is on file for the source.
	// The source is skipped silently; connecting is a user action.
	ErrNotConnected = errors.New("source not connected")

	// ErrInsufficientScope means the credential lacks a required permission.
	// Treated as a soft, expected condition: the source is skipped, not failed.
	ErrInsufficientScope = errors.New("credential missing required scope")

	// ErrTransientProvider covers network failures, 5xx responses and
	// unexpected payload shapes. Surfaced in the run's error list.
	ErrTransientProvider = errors.New("transient provider error")

	// ErrCursorExpired means the provider no longer accepts the stored sync
	// cursor. Always handled by falling back to a full resync, never surfaced.
	ErrCursorExpired = errors.New("sync cursor expired")

	// ErrRateLimited means the provider rejected a call for quota reasons.
	// The affected item or source is skipped; the error is surfaced for
	// visibility but does not abort the run.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrMalformedScore means the semantic scoring capability returned
	// something that could not be parsed. Always handled by defaulting.
	ErrMalformedScore = errors.New("could not parse scoring response")
)

// IsSoftSkip reports whether an adapter error should silently produce zero
// items rather than an entry in the run's error list.
func IsSoftSkip(err error) bool {
	return errors.Is(err, ErrNotConnected) || errors.Is(err, ErrInsufficientScope)
}
