package errors

import (
	"github.com/rs/zerolog"

	"github.com/threatintel/client/internal/types"
)

// LogErrorResponse writes a failed call and its error payload to l.
func LogErrorResponse(l *zerolog.Logger, path string, status int, payload *types.ErrorResponse) {
	l.Error().Str("path", path).Int("status_code", status).Msg("request failed")
	if payload == nil {
		return
	}
	l.Error().
		Str("trace_id", payload.Meta.TraceID).
		Float64("query_time", payload.Meta.QueryTime).
		Str("powered_by", payload.Meta.PoweredBy).
		Msg("failed request meta")
	for _, e := range payload.Errors {
		l.Error().Int("code", e.Code).Str("message", e.Message).Msg("failed request error")
	}
}
