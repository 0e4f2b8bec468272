package transport

import (
	"context"
	"maps"
)

// HeaderAuthorization is the header carrying credentials.
const HeaderAuthorization = "Authorization"

// AuthorizationHeader maps header names to values, e.g.
// {"Authorization": "bearer <token>"}.
type AuthorizationHeader map[string]string

// Clone returns an independent copy.
func (h AuthorizationHeader) Clone() AuthorizationHeader { return maps.Clone(h) }

// Authenticator produces the authorization header attached to requests.
type Authenticator interface {
	Authenticate(ctx context.Context) (AuthorizationHeader, error)
}

// AuthenticatorFunc adapts a function to an Authenticator.
type AuthenticatorFunc func(ctx context.Context) (AuthorizationHeader, error)

// Authenticate implements Authenticator.
func (f AuthenticatorFunc) Authenticate(ctx context.Context) (AuthorizationHeader, error) {
	return f(ctx)
}
