package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Ledger operations
	TransfersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_transfers_total",
			Help: "Total committed balance transfers",
		},
	)
	TransfersRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transfers_rejected_total",
			Help: "Total rejected balance transfers",
		},
		[]string{"reason"}, // invalid_payload|not_found|insufficient_balance
	)
	DepositsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_deposits_total",
			Help: "Total committed deposits",
		},
	)
	PointsRedeemedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_points_redeemed_total",
			Help: "Total points redeemed across all users",
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(TransfersTotal)
	prometheus.MustRegister(TransfersRejected)
	prometheus.MustRegister(DepositsTotal)
	prometheus.MustRegister(PointsRedeemedTotal)
	prometheus.MustRegister(WorkerQueueDepth)
}
