package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameWagersPlaced       = "wagers_placed_total"
	MetricNameWagersRejected     = "wagers_rejected_total"
	MetricNameWagersSettled      = "wagers_settled_total"
	MetricNamePayoutsIssued      = "payouts_issued_total"
	MetricNamePhaseTransitions   = "contest_phase_transitions_total"
	MetricNameDepositsReconciled = "deposits_reconciled_total"
	MetricNameDuplicateEvents    = "duplicate_events_skipped_total"
	MetricNameReferralsCompleted = "referrals_completed_total"
	MetricNameReferralClicks     = "referral_clicks_total"
	MetricNameStoreConflicts     = "store_conflicts_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextWagersPlaced       = "Total number of wagers accepted by admission"
	HelpTextWagersRejected     = "Total number of wagers rejected by admission"
	HelpTextWagersSettled      = "Total number of wagers settled"
	HelpTextPayoutsIssued      = "Total number of wager payout movements issued"
	HelpTextPhaseTransitions   = "Total number of contest phase transitions"
	HelpTextDepositsReconciled = "Total number of deposit confirmations applied"
	HelpTextDuplicateEvents    = "Total number of duplicate external events skipped"
	HelpTextReferralsCompleted = "Total number of referrals completed"
	HelpTextReferralClicks     = "Total number of unique referral clicks recorded"
	HelpTextStoreConflicts     = "Total number of conditional-write conflicts observed"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelReason = "reason"
	LabelPhase  = "phase"
	LabelKind   = "kind"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
