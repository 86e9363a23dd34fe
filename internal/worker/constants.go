package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Contest Ticker
// ============================================================================

const (
	LogMsgTickerStarted       = "Contest ticker started"
	LogMsgTickerStopped       = "Contest ticker stopped"
	LogMsgTickFailed          = "Contest tick failed"
	LogMsgContestTracked      = "Contest added to ticker"
	LogMsgContestUntracked    = "Contest removed from ticker"
	LogMsgFailedToListActives = "Failed to list active contests on startup"
)

// ============================================================================
// Log Messages - Settlement Worker
// ============================================================================

const (
	LogMsgSettlementEnqueued  = "Settlement job enqueued"
	LogMsgSettlementRetrying  = "Settlement conflicted, retrying"
	LogMsgSettlementGaveUp    = "Settlement retries exhausted"
	LogMsgSettlementJobFailed = "Settlement job failed"
)
