package wager

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgWagerPlaced         = "Wager placed"
	LogMsgDuplicateSubmission = "Duplicate wager submission, returning original"
	LogMsgWagerRejected       = "Wager rejected"
)

// ============================================================================
// Error Contexts
// ============================================================================

const (
	ErrContextFailedToBeginTx      = "failed to begin placement transaction"
	ErrContextFailedToDebitStake   = "failed to debit stake"
	ErrContextFailedToRecordStake  = "failed to record stake movement"
	ErrContextFailedToCreateWager  = "failed to create wager"
	ErrContextFailedToCommit       = "failed to commit placement"
	ErrContextFailedToCheckContest = "failed to check contest phase"
)

// ============================================================================
// Rejection Reasons (metric labels)
// ============================================================================

const (
	RejectReasonInsufficientFunds = "insufficient_funds"
	RejectReasonPhaseClosed       = "phase_closed"
	RejectReasonInvalidInput      = "invalid_input"
)

// MaxSelections caps the number of legs in a single parlay
const MaxSelections = 20
