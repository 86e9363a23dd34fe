package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/accrabet/accrabet/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode to a pooled buffer first so a marshal failure never produces
	// a half-written body
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgUnavailableError    = "Server is temporarily busy. Please try again."
	ErrMsgUserNotFoundError   = "User not found"
	ErrMsgUsernameTakenError  = "Username is already taken"
	ErrMsgSelfReferralError   = "You cannot use your own referral code"
	ErrMsgWalletNotFoundError = "Wallet not found"
	ErrMsgNotEnoughMoneyError = "Not enough money"
	ErrMsgWagerNotFoundError  = "Wager not found"
	ErrMsgPhaseClosedError    = "Contest is not accepting wagers right now"
	ErrMsgStakePositiveError  = "Stake must be positive"
	ErrMsgNoSelectionsError   = "At least one selection is required"
	ErrMsgDuplicateWagerError = "This wager was already submitted"
	ErrMsgContestNotFoundErr  = "Contest not found"
	ErrMsgContestVoidedError  = "Contest has been voided"
	ErrMsgUnknownRefError     = "Unknown reference"
	ErrMsgReferralClaimedErr  = "Referral reward already claimed"
	ErrMsgBadInputError       = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Internal error details never reach the client.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, ErrMsgUsernameTakenError
	case errors.Is(err, domain.ErrSelfReferral):
		return http.StatusBadRequest, ErrMsgSelfReferralError
	case errors.Is(err, domain.ErrWalletNotFound):
		return http.StatusNotFound, ErrMsgWalletNotFoundError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrWagerNotFound):
		return http.StatusNotFound, ErrMsgWagerNotFoundError
	case errors.Is(err, domain.ErrPhaseClosed):
		return http.StatusConflict, ErrMsgPhaseClosedError
	case errors.Is(err, domain.ErrStakeNotPositive):
		return http.StatusBadRequest, ErrMsgStakePositiveError
	case errors.Is(err, domain.ErrNoSelections):
		return http.StatusBadRequest, ErrMsgNoSelectionsError
	case errors.Is(err, domain.ErrDuplicateWager):
		return http.StatusConflict, ErrMsgDuplicateWagerError
	case errors.Is(err, domain.ErrContestNotFound):
		return http.StatusNotFound, ErrMsgContestNotFoundErr
	case errors.Is(err, domain.ErrContestVoided):
		return http.StatusConflict, ErrMsgContestVoidedError
	case errors.Is(err, domain.ErrUnknownReference):
		return http.StatusNotFound, ErrMsgUnknownRefError
	case errors.Is(err, domain.ErrRewardClaimed):
		return http.StatusConflict, ErrMsgReferralClaimedErr
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgBadInputError
	case errors.Is(err, domain.ErrStoreConflict), errors.Is(err, domain.ErrTransientFailure):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
