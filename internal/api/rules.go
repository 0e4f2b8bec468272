package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/threatintel/client/internal/transport"
	"github.com/threatintel/client/internal/types"
)

const rulesLatestFilesPath = "/intel/entities/rules-latest-files/v1"

// GetLatestRuleFile downloads the newest file of a rule set as a ZIP. When
// the request carries validators and the server answers 304 it returns
// types.ErrNotModified.
func GetLatestRuleFile(ctx context.Context, rq transport.Requester, req types.RuleFileRequest) (*types.Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateRequired(string(req.Type), "rule set type"); err != nil {
		return nil, err
	}
	query := url.Values{types.ParamType: {string(req.Type)}}

	resp, err := transport.Get(ctx, rq, rulesLatestFilesPath, query, ruleFileHeaders(req))
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return types.ParseDownload(resp.Header, resp.Body)
	case http.StatusNotModified:
		zerolog.Ctx(ctx).Debug().Str("type", string(req.Type)).Msg("rule file not modified")
		return nil, types.ErrNotModified
	default:
		return nil, unexpected(ctx, "get latest rule file", rulesLatestFilesPath, resp)
	}
}

func ruleFileHeaders(req types.RuleFileRequest) map[string]string {
	headers := map[string]string{headerAccept: mimeZip}
	if req.ETag != "" {
		headers[headerIfNoneMatch] = `"` + req.ETag + `"`
	}
	if req.LastModified != nil && !req.LastModified.IsZero() {
		headers[headerIfModifiedSince] = req.LastModified.UTC().Format(http.TimeFormat)
	}
	return headers
}
