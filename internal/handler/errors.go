package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgInvalidWagerID    = "Invalid wager ID"
	ErrMsgInvalidContestID  = "Invalid contest ID"
	ErrMsgMissingUserID     = "Missing or invalid user ID"

	// Wager operation error messages
	ErrMsgPlaceWagerFailed = "Failed to place wager"
	ErrMsgGetWagerFailed   = "Failed to get wager"
	ErrMsgListWagersFailed = "Failed to list wagers"

	// Wallet operation error messages
	ErrMsgGetWalletFailed = "Failed to get wallet"

	// Deposit and webhook error messages
	ErrMsgInitiateDepositFailed = "Failed to initiate deposit"
	ErrMsgInvalidAmount         = "Invalid amount"
	ErrMsgWebhookFailed         = "Failed to process event"

	// Contest error messages
	ErrMsgGetContestFailed    = "Failed to get contest"
	ErrMsgCreateContestFailed = "Failed to create contest"
	ErrMsgVoidContestFailed   = "Failed to void contest"

	// User management error messages
	ErrMsgRegisterUserFailed = "Failed to register user"
)

// Success messages for API responses
const (
	MsgWagerPlacedSuccess      = "Wager placed successfully"
	MsgDepositInitiatedSuccess = "Deposit initiated"
	MsgEventAccepted           = "Event accepted"
	MsgEventAlreadyProcessed   = "Event already processed"
	MsgEventDiscarded          = "Event discarded"
	MsgContestVoidedSuccess    = "Contest voided"
	MsgUserRegisteredSuccess   = "User registered successfully"
)
