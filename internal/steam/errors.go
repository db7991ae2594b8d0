package steam

import (
	"errors"
	"fmt"
)

// Sentinel errors for Steam API operations.
var (
	ErrNotFound      = errors.New("steam: not found")
	ErrRateLimited   = errors.New("steam: rate limited by server")
	ErrBadRequest    = errors.New("steam: bad request")
	ErrServer        = errors.New("steam: server error")
	ErrMissingAPIKey = errors.New("steam: missing API key")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "appList", "appDetail", "reviewSummary"
	AppID int64  // If applicable
	Err   error
}

func (e *Error) Error() string {
	if e.AppID != 0 {
		return fmt.Sprintf("steam %s [%d]: %v", e.Op, e.AppID, e.Err)
	}
	return fmt.Sprintf("steam %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op string, appID int64, err error) error {
	return &Error{
		Op:    op,
		AppID: appID,
		Err:   err,
	}
}
