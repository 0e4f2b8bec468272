package client

import (
	interrors "github.com/threatintel/client/internal/errors"
	"github.com/threatintel/client/internal/types"
)

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	ErrNotFound    = types.ErrNotFound
	ErrNotModified = types.ErrNotModified
)

type (
	TransportError        = interrors.TransportError
	AuthenticationError   = interrors.AuthenticationError
	UnexpectedStatusError = interrors.UnexpectedStatusError
	ErrorCategory         = interrors.ErrorCategory
)

const (
	Recoverable   = interrors.Recoverable
	Irrecoverable = interrors.Irrecoverable
)

// IsRecoverable reports whether retrying the failed call may succeed.
func IsRecoverable(err error) bool { return interrors.IsRecoverable(err) }

// IsIrrecoverable reports whether err is a classified failure that will not
// go away on retry.
func IsIrrecoverable(err error) bool { return interrors.IsIrrecoverable(err) }
