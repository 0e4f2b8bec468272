package api

import (
	"context"

	"github.com/threatintel/client/internal/transport"
	"github.com/threatintel/client/internal/types"
)

const (
	indicatorsQueriesPath  = "/intel/queries/indicators/v1"
	indicatorsCombinedPath = "/intel/combined/indicators/v1"
	indicatorsEntitiesPath = "/intel/entities/indicators/GET/v1"
)

// QueryIndicatorIDs lists the IDs of indicators matching q.
func QueryIndicatorIDs(ctx context.Context, rq transport.Requester, q types.IndicatorQuery) (*types.Response[string], error) {
	return getResources[string](ctx, rq, "query indicator ids", indicatorsQueriesPath, q.Values())
}

// QueryIndicators lists indicators matching q.
func QueryIndicators(ctx context.Context, rq transport.Requester, q types.IndicatorQuery) (*types.Response[types.Indicator], error) {
	return getResources[types.Indicator](ctx, rq, "query indicators", indicatorsCombinedPath, q.Values())
}

// GetIndicators fetches specific indicators by ID. The endpoint takes the
// IDs as a JSON body.
func GetIndicators(ctx context.Context, rq transport.Requester, ids []string) (*types.Response[types.Indicator], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDs(ids, "ids"); err != nil {
		return nil, err
	}
	resp, err := transport.PostJSON(ctx, rq, indicatorsEntitiesPath, types.GetIndicatorsRequest{IDs: ids}, nil)
	if err != nil {
		return nil, err
	}
	return decodeOK[types.Indicator](ctx, "get indicators", indicatorsEntitiesPath, resp)
}
