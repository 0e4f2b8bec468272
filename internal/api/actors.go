package api

import (
	"context"

	"github.com/threatintel/client/internal/transport"
	"github.com/threatintel/client/internal/types"
)

const (
	actorsQueriesPath  = "/intel/queries/actors/v1"
	actorsCombinedPath = "/intel/combined/actors/v1"
	actorsEntitiesPath = "/intel/entities/actors/v1"
)

// QueryActorIDs lists the IDs of actors matching q. q.Fields is ignored.
func QueryActorIDs(ctx context.Context, rq transport.Requester, q types.ActorQuery) (*types.Response[string], error) {
	q.Fields = nil
	return getResources[string](ctx, rq, "query actor ids", actorsQueriesPath, q.Values())
}

// QueryActors lists actors matching q.
func QueryActors(ctx context.Context, rq transport.Requester, q types.ActorQuery) (*types.Response[types.Actor], error) {
	return getResources[types.Actor](ctx, rq, "query actors", actorsCombinedPath, q.Values())
}

// GetActors fetches specific actors by ID.
func GetActors(ctx context.Context, rq transport.Requester, q types.EntitiesQuery) (*types.Response[types.Actor], error) {
	if err := types.ValidateIDs(q.IDs, "ids"); err != nil {
		return nil, err
	}
	return getResources[types.Actor](ctx, rq, "get actors", actorsEntitiesPath, q.Values())
}
