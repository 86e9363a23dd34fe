package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/reconcile"
)

type WebhookHandler struct {
	service reconcile.Service
}

func NewWebhookHandler(service reconcile.Service) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// PaymentWebhookRequest is the envelope the payment gateway posts. The full
// raw body is retained as the movement's audit payload.
type PaymentWebhookRequest struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// SMSWebhookRequest is an SMPP-style delivery receipt. Receipts reuse the
// payment reconciliation path; only the status vocabulary differs.
type SMSWebhookRequest struct {
	MessageID string `json:"message_id"`
	Stat      string `json:"stat"`
}

// HandlePaymentWebhook applies one gateway confirmation. Replays and events
// for already-settled movements acknowledge with 200 so the gateway stops
// retrying; only transient failures return a retryable status.
func (h *WebhookHandler) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return
	}

	var req PaymentWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Reference == "" {
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return
	}

	h.confirm(w, r, req.Reference, req.Status, body)
}

func (h *WebhookHandler) HandleSMSWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return
	}

	var req SMSWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil || req.MessageID == "" {
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return
	}

	h.confirm(w, r, req.MessageID, req.Stat, body)
}

func (h *WebhookHandler) confirm(w http.ResponseWriter, r *http.Request, reference, status string, payload []byte) {
	log := logger.FromContext(r.Context())

	err := h.service.ConfirmDeposit(r.Context(), reference, status, payload)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgEventAccepted})
	case errors.Is(err, domain.ErrDuplicateEvent):
		// Success from the gateway's point of view
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgEventAlreadyProcessed})
	case errors.Is(err, domain.ErrUnknownReference):
		// Acknowledged but not correlated; retrying won't help the gateway
		log.Warn(ErrMsgWebhookFailed, "error", err, "reference", reference)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgEventDiscarded})
	default:
		log.Error(ErrMsgWebhookFailed, "error", err, "reference", reference)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
	}
}
