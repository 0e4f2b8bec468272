// Package auth contains Authenticator implementations.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	interrors "github.com/threatintel/client/internal/errors"
	"github.com/threatintel/client/internal/transport"
	"github.com/threatintel/client/internal/types"
)

const (
	// TokenEndpoint is where client credentials are exchanged for a token.
	TokenEndpoint = "/oauth2/token"

	formClientID     = "client_id"
	formClientSecret = "client_secret"

	mimeJSON           = "application/json"
	mimeFormURLEncoded = "application/x-www-form-urlencoded"

	// bearerScheme is sent lower-case; the API accepts it as issued.
	bearerScheme = "bearer"
)

// Token is the token endpoint's success payload.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// OAuth2ClientCredentials exchanges a client id and secret for a bearer
// token. It keeps no token state of its own: callers cache the header and
// call Authenticate again when the API rejects it.
type OAuth2ClientCredentials struct {
	requester    transport.Requester
	clientID     string
	clientSecret string
	log          *zerolog.Logger
}

// NewOAuth2ClientCredentials builds the authenticator. requester must be an
// unauthenticated transport pointed at the API base URL.
func NewOAuth2ClientCredentials(requester transport.Requester, clientID, clientSecret string, logger *zerolog.Logger) (*OAuth2ClientCredentials, error) {
	if requester == nil {
		return nil, errors.New("auth: requester cannot be nil")
	}
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" {
		return nil, errors.New("auth: client id is required")
	}
	if clientSecret == "" {
		return nil, errors.New("auth: client secret is required")
	}
	if logger == nil {
		logger = &log.Logger
	}
	return &OAuth2ClientCredentials{
		requester:    requester,
		clientID:     clientID,
		clientSecret: clientSecret,
		log:          logger,
	}, nil
}

// Authenticate posts the credentials to TokenEndpoint and returns
// {"Authorization": "bearer <access_token>"}. Any status other than 201, a
// network failure or an unusable payload yields *errors.AuthenticationError.
func (o *OAuth2ClientCredentials) Authenticate(ctx context.Context) (transport.AuthorizationHeader, error) {
	form := url.Values{}
	form.Set(formClientID, o.clientID)
	form.Set(formClientSecret, o.clientSecret)
	headers := map[string]string{
		"Accept":       mimeJSON,
		"Content-Type": mimeFormURLEncoded,
	}

	resp, err := transport.PostForm(ctx, o.requester, TokenEndpoint, form, headers)
	if err != nil {
		return nil, &interrors.AuthenticationError{Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		payload := types.ParseErrorResponse(resp.Body)
		interrors.LogErrorResponse(o.log, TokenEndpoint, resp.StatusCode, payload)
		return nil, &interrors.AuthenticationError{StatusCode: resp.StatusCode, Payload: payload}
	}

	var token Token
	if err := json.Unmarshal(resp.Body, &token); err != nil {
		return nil, &interrors.AuthenticationError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode token response: %w", err),
		}
	}
	if token.AccessToken == "" {
		return nil, &interrors.AuthenticationError{
			StatusCode: resp.StatusCode,
			Err:        errors.New("token response missing access_token"),
		}
	}

	o.log.Info().
		Str("token_type", token.TokenType).
		Int("expires_in", token.ExpiresIn).
		Msg("generated access token")

	return transport.AuthorizationHeader{
		transport.HeaderAuthorization: bearerScheme + " " + token.AccessToken,
	}, nil
}
