package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"
	ErrMsgUserExists   = "username already taken"
	ErrMsgSelfReferral = "cannot use own referral code"

	// Wallet / ledger errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgWalletNotFound    = "wallet not found"

	// Wager errors
	ErrMsgWagerNotFound    = "wager not found"
	ErrMsgPhaseClosed      = "contest not open for wagers"
	ErrMsgStakeNotPositive = "stake must be positive"
	ErrMsgNoSelections     = "at least one selection is required"
	ErrMsgAlreadySettled   = "wager already settled"
	ErrMsgDuplicateWager   = "duplicate wager submission"

	// Contest errors
	ErrMsgContestNotFound = "contest not found"
	ErrMsgContestVoided   = "contest voided"
	ErrMsgRoundNotFound   = "round result not found"

	// Reconciliation errors
	ErrMsgUnknownReference = "unknown external reference"
	ErrMsgDuplicateEvent   = "event already reconciled"

	// Referral errors
	ErrMsgReferralNotFound = "referral not found"
	ErrMsgRewardClaimed    = "referral reward already claimed"

	// Database/System errors
	ErrMsgStoreConflict    = "concurrent update conflict"
	ErrMsgTransientFailure = "transient failure, retries exhausted"
	ErrMsgTxClosed         = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)
	ErrUserExists   = errors.New(ErrMsgUserExists)
	ErrSelfReferral = errors.New(ErrMsgSelfReferral)

	// Wallet / ledger errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrWalletNotFound    = errors.New(ErrMsgWalletNotFound)

	// Wager errors
	ErrWagerNotFound    = errors.New(ErrMsgWagerNotFound)
	ErrPhaseClosed      = errors.New(ErrMsgPhaseClosed)
	ErrStakeNotPositive = errors.New(ErrMsgStakeNotPositive)
	ErrNoSelections     = errors.New(ErrMsgNoSelections)
	ErrAlreadySettled   = errors.New(ErrMsgAlreadySettled)
	ErrDuplicateWager   = errors.New(ErrMsgDuplicateWager)

	// Contest errors
	ErrContestNotFound = errors.New(ErrMsgContestNotFound)
	ErrContestVoided   = errors.New(ErrMsgContestVoided)
	ErrRoundNotFound   = errors.New(ErrMsgRoundNotFound)

	// Reconciliation errors
	// ErrDuplicateEvent is a success from the external caller's point of view;
	// webhook senders get a 2xx regardless of the idempotent skip.
	ErrUnknownReference = errors.New(ErrMsgUnknownReference)
	ErrDuplicateEvent   = errors.New(ErrMsgDuplicateEvent)

	// Referral errors
	ErrReferralNotFound = errors.New(ErrMsgReferralNotFound)
	ErrRewardClaimed    = errors.New(ErrMsgRewardClaimed)

	// Database/System errors
	ErrStoreConflict    = errors.New(ErrMsgStoreConflict)
	ErrTransientFailure = errors.New(ErrMsgTransientFailure)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
