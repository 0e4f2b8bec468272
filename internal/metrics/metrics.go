// Package metrics holds the prometheus collectors shared by the SDK's
// transport and authentication layers.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "intel_client"

var (
	// RequestsTotal counts physical HTTP attempts by method and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests sent, by method and response status.",
		},
		[]string{"method", "status"},
	)

	// TransportErrorsTotal counts attempts that failed below HTTP.
	TransportErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_errors_total",
			Help:      "Requests that failed at the network layer.",
		},
		[]string{"method"},
	)

	// AuthenticationsTotal counts calls to the authenticator by outcome.
	AuthenticationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authentications_total",
			Help:      "Authorization header fetches, by result.",
		},
		[]string{"result"},
	)

	// ReauthenticationsTotal counts retries triggered by 401/403.
	ReauthenticationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reauthentications_total",
			Help:      "Requests retried after an authorization failure.",
		},
	)
)

// ObserveRequest records one physical attempt.
func ObserveRequest(method string, status int) {
	RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// ObserveAuthentication records one authenticator call.
func ObserveAuthentication(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AuthenticationsTotal.WithLabelValues(result).Inc()
}
