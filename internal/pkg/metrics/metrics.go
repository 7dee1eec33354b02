package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// CallsTotal counts façade calls by RPC method and outcome
	// (ok, service_error, transport_error).
	CallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetclient_calls_total",
			Help: "Total number of Fleet Manager calls by method and result.",
		},
		[]string{"method", "result"},
	)

	// CallLatency records the round trip of unary RPCs.
	CallLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetclient_call_latency_seconds",
			Help:    "Latency of unary Fleet Manager RPCs.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)

	// SubscriptionState counts the clients of this process in each
	// subscription state.
	SubscriptionState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetclient_subscription_state",
			Help: "Number of Fleet Manager clients in each subscription state.",
		},
		[]string{"state"},
	)

	// ReconnectsTotal counts stream failures followed by a reconnect attempt.
	ReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetclient_subscription_reconnects_total",
			Help: "Total number of fleet state stream reconnects.",
		},
	)

	// SnapshotsTotal counts fleet state snapshots received from the stream.
	SnapshotsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetclient_snapshots_received_total",
			Help: "Total number of fleet state snapshots received.",
		},
	)

	// LatestTick is the tick of the last snapshot received.
	LatestTick = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetclient_latest_tick",
			Help: "Tick counter of the most recent fleet state snapshot.",
		},
	)

	// ObserverDropsTotal counts snapshots discarded because an observer fell behind.
	ObserverDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetclient_observer_dropped_total",
			Help: "Snapshots dropped from a slow observer's backlog.",
		},
	)

	// RelayPublishTotal counts MQTT publications made by the relay.
	RelayPublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetclient_relay_publish_total",
			Help: "MQTT publications made by the fleet state relay.",
		},
		[]string{"kind", "result"},
	)

	// RelayCommandsTotal counts commands received by the relay over MQTT.
	RelayCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetclient_relay_commands_total",
			Help: "Fleet commands received by the relay, by command and result.",
		},
		[]string{"command", "result"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		CallsTotal,
		CallLatency,
		SubscriptionState,
		ReconnectsTotal,
		SnapshotsTotal,
		LatestTick,
		ObserverDropsTotal,
		RelayPublishTotal,
		RelayCommandsTotal,
	)
}
