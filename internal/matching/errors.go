package matching

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Handlers map them to HTTP statuses
// with errors.Is.
var (
	// ErrCoachNotVerified means the requester email does not belong to a
	// coach in Accepted or Unmatched status. Nothing is persisted.
	ErrCoachNotVerified = errors.New("email is not registered as an accepted coach")

	ErrEntrepreneurNotFound = errors.New("entrepreneur not found")
	ErrCoachNotFound        = errors.New("coach not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrRequestNotFound      = errors.New("matching request not found")

	// ErrEntrepreneurNotAdmitted: only Admitted entrepreneurs can be matched.
	ErrEntrepreneurNotAdmitted = errors.New("entrepreneur is not in Admitted status")

	// ErrCoachNotAvailable: only Accepted or Unmatched coaches can be matched.
	ErrCoachNotAvailable = errors.New("coach is not available for matching")

	// ErrMatchNotActive: End Coaching and Unmatch apply to active matches only.
	ErrMatchNotActive = errors.New("match is not active")

	// ErrMatchStillActive: active matches must be completed or unmatched
	// before the record can be deleted, so entrepreneur and coach statuses
	// are never left stale.
	ErrMatchStillActive = errors.New("active match cannot be deleted")

	// ErrRequestNotCancellable: the requester may cancel only while pending.
	ErrRequestNotCancellable = errors.New("request can no longer be cancelled")

	// ErrNotRequester: cancellation is restricted to the request's own email.
	ErrNotRequester = errors.New("request belongs to a different requester")
)

// ValidationError reports a rejected input field before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
