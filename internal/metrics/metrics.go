package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RouteQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgraph_route_queries_total",
		Help: "Total number of route queries, labelled by outcome (found, no_route, error).",
	}, []string{"outcome"})

	RouteHops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roomgraph_route_hops",
		Help:    "Hop count of routes that were found.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
	})

	RoomsExpanded = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roomgraph_route_rooms_expanded",
		Help:    "Rooms expanded by a single breadth-first search.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 11),
	})

	EventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgraph_events_applied_total",
		Help: "Total number of world events applied, labelled by type and status.",
	}, []string{"event_type", "status"})

	CommandsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomgraph_commands_rejected_total",
		Help: "Total number of commands rejected because the control loop queue was full.",
	})

	ExitSlotsInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomgraph_exit_slots_in_use",
		Help: "Edge slots currently holding an exit.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomgraph_queue_utilization_ratio",
		Help: "Current control loop queue utilization (0-1).",
	})
)
