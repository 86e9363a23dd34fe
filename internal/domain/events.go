package domain

// Event types published on the in-process bus
const (
	EventContestCreated      = "ContestCreated"
	EventContestPhaseChanged = "ContestPhaseChanged"
	EventContestVoided       = "ContestVoided"
	EventWagerPlaced         = "WagerPlaced"
	EventWagerSettled        = "WagerSettled"
	EventDepositConfirmed    = "DepositConfirmed"
	EventReferralCompleted   = "ReferralCompleted"
)
