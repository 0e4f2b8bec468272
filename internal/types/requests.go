package types

import (
	"net/url"
	"strconv"
)

// Query parameter names shared across the intel endpoints.
const (
	ParamIDs            = "ids"
	ParamID             = "id"
	ParamOffset         = "offset"
	ParamLimit          = "limit"
	ParamSort           = "sort"
	ParamFilter         = "filter"
	ParamQ              = "q"
	ParamFields         = "fields"
	ParamIncludeDeleted = "include_deleted"
	ParamType           = "type"
)

// SortMarker is the only sort order allowed with deep pagination.
const SortMarker = "_marker"

// DeepPaginationLimit is applied when deep pagination is requested without
// an explicit limit.
const DeepPaginationLimit = 10000

// ------------------------------
// Request Types
// ------------------------------

// ActorQuery scopes actor list calls. Zero values are omitted.
type ActorQuery struct {
	Offset int
	Limit  int
	Sort   string
	Filter string // FQL, passed through unmodified
	Q      string
	Fields []string
}

// Values encodes the query.
func (q ActorQuery) Values() url.Values {
	v := url.Values{}
	setInt(v, ParamOffset, q.Offset)
	setInt(v, ParamLimit, q.Limit)
	setString(v, ParamSort, q.Sort)
	setString(v, ParamFilter, q.Filter)
	setString(v, ParamQ, q.Q)
	addAll(v, ParamFields, q.Fields)
	return v
}

// ReportQuery scopes report list calls. Zero values are omitted.
type ReportQuery ActorQuery

// Values encodes the query.
func (q ReportQuery) Values() url.Values { return ActorQuery(q).Values() }

// IndicatorQuery scopes indicator list calls. Zero values are omitted.
//
// With DeepPagination set the offset is dropped, the limit defaults to
// DeepPaginationLimit and the sort is forced to SortMarker.
type IndicatorQuery struct {
	Offset         int
	Limit          int
	Sort           string
	Filter         string
	Q              string
	IncludeDeleted bool
	DeepPagination bool
}

// Values encodes the query.
func (q IndicatorQuery) Values() url.Values {
	if q.DeepPagination {
		q.Offset = 0
		if q.Limit == 0 {
			q.Limit = DeepPaginationLimit
		}
		q.Sort = SortMarker
	}
	v := url.Values{}
	setInt(v, ParamOffset, q.Offset)
	setInt(v, ParamLimit, q.Limit)
	setString(v, ParamSort, q.Sort)
	setString(v, ParamFilter, q.Filter)
	setString(v, ParamQ, q.Q)
	if q.IncludeDeleted {
		v.Set(ParamIncludeDeleted, "true")
	}
	return v
}

// IndicatorQueryFromValues rebuilds a query from next-page parameters.
func IndicatorQueryFromValues(v url.Values) IndicatorQuery {
	q := IndicatorQuery{
		Sort:   v.Get(ParamSort),
		Filter: v.Get(ParamFilter),
		Q:      v.Get(ParamQ),
	}
	q.Offset, _ = strconv.Atoi(v.Get(ParamOffset))
	q.Limit, _ = strconv.Atoi(v.Get(ParamLimit))
	q.IncludeDeleted, _ = strconv.ParseBool(v.Get(ParamIncludeDeleted))
	q.DeepPagination = q.Sort == SortMarker
	return q
}

// EntitiesQuery selects specific entities by ID.
type EntitiesQuery struct {
	IDs    []string
	Fields []string
}

// Values encodes the query.
func (q EntitiesQuery) Values() url.Values {
	v := url.Values{}
	addAll(v, ParamIDs, q.IDs)
	addAll(v, ParamFields, q.Fields)
	return v
}

// GetIndicatorsRequest is the JSON body of the indicator entities call.
type GetIndicatorsRequest struct {
	IDs []string `json:"ids"`
}

func setInt(v url.Values, key string, n int) {
	if n != 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func addAll(v url.Values, key string, values []string) {
	for _, s := range values {
		v.Add(key, s)
	}
}
