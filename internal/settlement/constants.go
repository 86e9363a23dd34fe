package settlement

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgSettlementStarted  = "Settlement run started"
	LogMsgSettlementFinished = "Settlement run finished"
	LogMsgWagerSettled       = "Wager settled"
	LogMsgWagerAlreadyDone   = "Wager already settled by another run"
	LogMsgWagerUnresolvable  = "Wager has unresolved legs, leaving pending"
	LogMsgWagerFailed        = "Failed to settle wager"
)

// ============================================================================
// Error Contexts
// ============================================================================

const (
	ErrContextFailedToLoadRound  = "failed to load round result"
	ErrContextFailedToLoadWagers = "failed to load pending wagers"
	ErrContextFailedToCredit     = "failed to credit payout"
	ErrContextFailedToCommit     = "failed to commit settlement"
)
