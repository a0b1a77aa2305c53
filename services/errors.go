package services

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to handlers. Handlers translate these into HTTP
// statuses; anything else is a 500 with a generic message.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrProfileNotFound  = errors.New("charity profile not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError reports a client-side form constraint violation, e.g. a
// donation under the minimum amount. The message is user-visible.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteError wraps a failure from the store or the blockchain gateway,
// passing the upstream message through verbatim.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
