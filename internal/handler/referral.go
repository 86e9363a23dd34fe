package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/reconcile"
)

type ReferralHandler struct {
	service reconcile.Service
}

func NewReferralHandler(service reconcile.Service) *ReferralHandler {
	return &ReferralHandler{service: service}
}

// HandleReferralClick records one referral link visit. Repeat visits from
// the same address are acknowledged without being counted, so the endpoint
// stays safe to sit behind a public short link.
func (h *ReferralHandler) HandleReferralClick(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, ErrMsgInvalidRequestSummary, http.StatusBadRequest)
		return
	}

	err := h.service.RecordClick(r.Context(), code, ClientIP(r))
	if err != nil {
		if errors.Is(err, domain.ErrUnknownReference) {
			respondError(w, http.StatusNotFound, ErrMsgUnknownRefError)
			return
		}
		// Click tracking is best effort; the visitor still gets a 200
		logger.FromContext(r.Context()).Error("Failed to record referral click", "error", err, "code", code)
	}

	w.WriteHeader(http.StatusNoContent)
}
