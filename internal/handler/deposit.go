package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/reconcile"
)

type DepositHandler struct {
	service reconcile.Service
}

func NewDepositHandler(service reconcile.Service) *DepositHandler {
	return &DepositHandler{service: service}
}

type InitiateDepositRequest struct {
	Amount    string `json:"amount" validate:"required,money"`
	Reference string `json:"reference" validate:"required"`
}

// HandleInitiateDeposit records a pending movement correlated with the
// gateway reference before the client is handed off to the payment flow.
// Money only moves when the gateway confirms through the webhook.
func (h *DepositHandler) HandleInitiateDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromRequest(r, w)
	if !ok {
		return
	}

	var req InitiateDepositRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Initiate deposit"); err != nil {
		return
	}

	amount, _ := decimal.NewFromString(req.Amount)

	movement, err := h.service.InitiateDeposit(r.Context(), userID, amount, req.Reference)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgInitiateDepositFailed, "error", err, "user_id", userID)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgDepositInitiatedSuccess, Data: movement})
}
