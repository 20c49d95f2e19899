package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsSent counts transactions sent to each chain by operation and outcome kind
	TransactionsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_transactions_sent_total",
			Help: "Total number of transactions sent",
		},
		[]string{"chain", "operation", "result"},
	)

	// SubmissionDuration tracks time from signing to receipt
	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_submission_duration_seconds",
			Help:    "Submission duration in seconds, receipt wait included",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"chain", "operation"},
	)

	// ValidatorRequests counts attestation requests by validator and result
	ValidatorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_validator_requests_total",
			Help: "Total number of validator attestation requests",
		},
		[]string{"validator", "result"},
	)

	// ValidatorRequestDuration tracks per validator latency, retries included
	ValidatorRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_validator_request_duration_seconds",
			Help:    "Validator attestation request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"validator"},
	)

	// AttestationsCollected tracks how many signatures each collection round gathered
	AttestationsCollected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bridge_attestations_collected",
			Help:    "Number of signatures collected per round",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 7, 10},
		},
	)

	// ClaimsTotal counts claim outcomes by error kind
	ClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_claims_total",
			Help: "Total number of claim attempts",
		},
		[]string{"chain", "result"},
	)

	// LedgerTransitions counts ledger status changes
	LedgerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_ledger_transitions_total",
			Help: "Total number of ledger status transitions",
		},
		[]string{"status"},
	)

	// PendingTransactions tracks entries awaiting finality or claim
	PendingTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridge_pending_transactions",
			Help: "Number of non-terminal ledger entries seen by the watcher",
		},
	)

	// LastCheckedBlock tracks the latest block read per chain
	LastCheckedBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bridge_last_checked_block",
			Help: "Latest block number read by the watcher",
		},
		[]string{"chain"},
	)

	// EventsPublished counts ledger events delivered to the sink
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_events_published_total",
			Help: "Total number of ledger events published",
		},
		[]string{"result"},
	)

	// ErrorsTotal counts errors by component and kind
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
