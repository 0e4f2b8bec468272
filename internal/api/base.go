package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	interrors "github.com/threatintel/client/internal/errors"
	"github.com/threatintel/client/internal/transport"
	"github.com/threatintel/client/internal/types"
)

const (
	headerAccept          = "Accept"
	headerIfNoneMatch     = "If-None-Match"
	headerIfModifiedSince = "If-Modified-Since"

	mimeOctetStream = "application/octet-stream"
	mimeZip         = "application/zip"
)

// getResources issues a GET and decodes a 200 response into Response[T].
func getResources[T any](ctx context.Context, rq transport.Requester, op, path string, query url.Values) (*types.Response[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := transport.Get(ctx, rq, path, query, nil)
	if err != nil {
		return nil, err
	}
	return decodeOK[T](ctx, op, path, resp)
}

func decodeOK[T any](ctx context.Context, op, path string, resp *transport.Response) (*types.Response[T], error) {
	if err := checkStatus(ctx, op, path, resp, http.StatusOK); err != nil {
		return nil, err
	}
	return types.DecodeResponse[T](resp.Header, resp.Body)
}

// checkStatus returns an *errors.UnexpectedStatusError, after logging the
// error payload, when resp does not carry want.
func checkStatus(ctx context.Context, op, path string, resp *transport.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	return unexpected(ctx, op, path, resp)
}

func unexpected(ctx context.Context, op, path string, resp *transport.Response) error {
	e := interrors.NewUnexpectedStatus(op, resp.StatusCode, resp.Body)
	interrors.LogErrorResponse(zerolog.Ctx(ctx), path, resp.StatusCode, e.Payload)
	return e
}
