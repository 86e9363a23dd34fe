package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	WagersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameWagersPlaced,
			Help: HelpTextWagersPlaced,
		},
	)

	WagersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWagersRejected,
			Help: HelpTextWagersRejected,
		},
		[]string{LabelReason},
	)

	WagersSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWagersSettled,
			Help: HelpTextWagersSettled,
		},
		[]string{LabelStatus},
	)

	PayoutsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePayoutsIssued,
			Help: HelpTextPayoutsIssued,
		},
	)

	PhaseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePhaseTransitions,
			Help: HelpTextPhaseTransitions,
		},
		[]string{LabelPhase},
	)

	DepositsReconciled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDepositsReconciled,
			Help: HelpTextDepositsReconciled,
		},
		[]string{LabelStatus},
	)

	DuplicateEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDuplicateEvents,
			Help: HelpTextDuplicateEvents,
		},
		[]string{LabelKind},
	)

	ReferralsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReferralsCompleted,
			Help: HelpTextReferralsCompleted,
		},
	)

	ReferralClicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReferralClicks,
			Help: HelpTextReferralClicks,
		},
	)

	StoreConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreConflicts,
			Help: HelpTextStoreConflicts,
		},
		[]string{LabelKind},
	)
)
