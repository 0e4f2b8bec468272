package auth

import (
	"context"
	"errors"

	"github.com/threatintel/client/internal/transport"
)

// StaticToken authenticates with a pre-issued bearer token. A rejected
// token cannot be refreshed, so the retry after a 401 uses the same value.
type StaticToken struct {
	token string
}

// NewStaticToken returns an authenticator for token.
func NewStaticToken(token string) (*StaticToken, error) {
	if token == "" {
		return nil, errors.New("auth: token cannot be empty")
	}
	return &StaticToken{token: token}, nil
}

// Authenticate implements transport.Authenticator.
func (s *StaticToken) Authenticate(context.Context) (transport.AuthorizationHeader, error) {
	return transport.AuthorizationHeader{transport.HeaderAuthorization: "Bearer " + s.token}, nil
}
