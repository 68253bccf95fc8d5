package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message sources for RelayMessagesTotal
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Relay Metrics
var (
	// RelayConnectedClients tracks the current size of the relay registry
	RelayConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_connected_clients",
			Help: "Number of connections currently registered with the relay",
		},
	)

	// RelayConnectionsTotal counts registry changes by event (connect/disconnect)
	RelayConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_connections_total",
			Help: "Total relay connection events by type",
		},
		[]string{"event"},
	)

	// RelayMessagesTotal counts relayed messages by source (local/remote)
	RelayMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_total",
			Help: "Total messages relayed by source",
		},
		[]string{"source"},
	)

	// RelayDeliveriesTotal counts per-recipient delivery attempts by result
	RelayDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_deliveries_total",
			Help: "Total per-recipient deliveries by result (delivered/failed)",
		},
		[]string{"result"},
	)

	// RelayStaleMessagesTotal counts messages dropped because the sender had already disconnected
	RelayStaleMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_stale_messages_total",
			Help: "Messages dropped because their sender was no longer registered",
		},
	)

	// BridgeErrorsTotal counts cluster bridge failures by operation
	BridgeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_bridge_errors_total",
			Help: "Cluster bridge errors by operation (publish/decode)",
		},
		[]string{"operation"},
	)
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)
