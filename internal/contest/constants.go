package contest

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPhaseAdvanced     = "Contest phase advanced"
	LogMsgPhaseConflict     = "Phase transition lost to concurrent writer, reloading"
	LogMsgContestRecovered  = "Contest recovered from snapshot"
	LogMsgContestVoided     = "Contest voided"
	LogMsgOutcomesRecorded  = "Round outcomes recorded"
	LogMsgSettlementTrigger = "Settlement triggered for round"
)

// ============================================================================
// Error Contexts
// ============================================================================

const (
	ErrContextFailedToLoadContest    = "failed to load contest"
	ErrContextFailedToRecordOutcomes = "failed to record round outcomes"
	ErrContextFailedToTransition     = "failed to transition phase"
	ErrContextFailedToPublishEvent   = "failed to publish phase change event"
)

// MaxCatchUpTransitions bounds how many missed transitions a single tick or
// recovery pass will replay. A clock that has been down for hours should not
// spin through thousands of empty rounds.
const MaxCatchUpTransitions = 50
