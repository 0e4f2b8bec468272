package client

import (
	"net/url"

	"github.com/threatintel/client/internal/transport"
	"github.com/threatintel/client/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	ActorQuery      = types.ActorQuery
	ReportQuery     = types.ReportQuery
	IndicatorQuery  = types.IndicatorQuery
	EntitiesQuery   = types.EntitiesQuery
	RuleFileRequest = types.RuleFileRequest
	RuleSetType     = types.RuleSetType

	// Domain entities
	Actor     = types.Actor
	Indicator = types.Indicator
	Report    = types.Report
	Entity    = types.Entity
	Timestamp = types.Timestamp

	// Responses
	Meta          = types.Meta
	Pagination    = types.Pagination
	ErrorDetail   = types.ErrorDetail
	ErrorResponse = types.ErrorResponse
	Download      = types.Download

	// Transport
	Authenticator       = transport.Authenticator
	AuthenticatorFunc   = transport.AuthenticatorFunc
	AuthorizationHeader = transport.AuthorizationHeader
	Timeouts            = transport.Timeouts
)

// Response is a page of resources plus metadata.
type Response[T any] = types.Response[T]

// IndicatorQueryFromValues rebuilds the indicator query for the page named
// by Response.NextPageParams.
func IndicatorQueryFromValues(v url.Values) IndicatorQuery {
	return types.IndicatorQueryFromValues(v)
}

const (
	RuleSetSnortSuricataMaster    = types.RuleSetSnortSuricataMaster
	RuleSetSnortSuricataUpdate    = types.RuleSetSnortSuricataUpdate
	RuleSetSnortSuricataChangelog = types.RuleSetSnortSuricataChangelog
	RuleSetYaraMaster             = types.RuleSetYaraMaster
	RuleSetYaraUpdate             = types.RuleSetYaraUpdate
	RuleSetYaraChangelog          = types.RuleSetYaraChangelog
	RuleSetCommonEventFormat      = types.RuleSetCommonEventFormat
	RuleSetNetWitness             = types.RuleSetNetWitness
)
