package reconcile

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgDepositConfirmed     = "Deposit confirmed"
	LogMsgDepositFailed        = "Deposit marked failed"
	LogMsgDepositDuplicate     = "Duplicate payment event ignored"
	LogMsgDepositUnknownRef    = "Payment event for unknown reference discarded"
	LogMsgDepositIndeterminate = "Indeterminate gateway status, movement left pending"
	LogMsgReferralCompleted    = "Referral completed, bonus credited"
	LogMsgClickRecorded        = "Referral click recorded"
	LogMsgClickMilestone       = "Referral click milestone reached, bonus issued"
)

// ============================================================================
// Error Contexts
// ============================================================================

const (
	ErrContextFailedToBeginTx = "failed to begin reconcile transaction"
	ErrContextFailedToCASMove = "failed to update movement status"
	ErrContextFailedToCredit  = "failed to credit wallet"
	ErrContextFailedToCascade = "failed to apply referral cascade"
	ErrContextFailedToCommit  = "failed to commit reconciliation"
)

// ============================================================================
// Reconciliation Outcomes (metric labels)
// ============================================================================

const (
	OutcomeSuccess    = "success"
	OutcomeFailed     = "failed"
	OutcomeDuplicate  = "duplicate"
	OutcomeUnknownRef = "unknown_ref"
	OutcomeIgnored    = "ignored"
)

// ClickCacheSize bounds the in-memory front cache for click deduplication.
// The database unique constraint is the real guarantee; the cache only
// absorbs repeat traffic.
const ClickCacheSize = 65536
