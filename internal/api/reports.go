package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/threatintel/client/internal/transport"
	"github.com/threatintel/client/internal/types"
)

const (
	reportsQueriesPath  = "/intel/queries/reports/v1"
	reportsCombinedPath = "/intel/combined/reports/v1"
	reportsEntitiesPath = "/intel/entities/reports/v1"
	reportsFilesPath    = "/intel/entities/report-files/v1"
)

// QueryReportIDs lists the IDs of reports matching q. q.Fields is ignored.
func QueryReportIDs(ctx context.Context, rq transport.Requester, q types.ReportQuery) (*types.Response[string], error) {
	q.Fields = nil
	return getResources[string](ctx, rq, "query report ids", reportsQueriesPath, q.Values())
}

// QueryReports lists reports matching q.
func QueryReports(ctx context.Context, rq transport.Requester, q types.ReportQuery) (*types.Response[types.Report], error) {
	return getResources[types.Report](ctx, rq, "query reports", reportsCombinedPath, q.Values())
}

// GetReports fetches specific reports by ID.
func GetReports(ctx context.Context, rq transport.Requester, q types.EntitiesQuery) (*types.Response[types.Report], error) {
	if err := types.ValidateIDs(q.IDs, "ids"); err != nil {
		return nil, err
	}
	return getResources[types.Report](ctx, rq, "get reports", reportsEntitiesPath, q.Values())
}

// GetReportPDF downloads the PDF of a report. It returns types.ErrNotFound
// when the report has no file.
func GetReportPDF(ctx context.Context, rq transport.Requester, reportID string) (*types.Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateRequired(reportID, "report id"); err != nil {
		return nil, err
	}
	query := url.Values{types.ParamID: {reportID}}
	headers := map[string]string{headerAccept: mimeOctetStream}

	resp, err := transport.Get(ctx, rq, reportsFilesPath, query, headers)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return types.ParseDownload(resp.Header, resp.Body)
	case http.StatusNotFound:
		zerolog.Ctx(ctx).Info().Str("report_id", reportID).Msg("no report file")
		return nil, types.ErrNotFound
	default:
		return nil, unexpected(ctx, "get report pdf", reportsFilesPath, resp)
	}
}
