package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/wager"
)

// HeaderIdempotencyKey lets clients retry a placement without double-spending
const HeaderIdempotencyKey = "Idempotency-Key"

type WagerHandler struct {
	service wager.Service
}

func NewWagerHandler(service wager.Service) *WagerHandler {
	return &WagerHandler{service: service}
}

// SelectionRequest is one leg of a wager. Odds travel as strings so no
// precision is lost to float decoding.
type SelectionRequest struct {
	ContestID string `json:"contest_id" validate:"required,uuid"`
	MarketID  string `json:"market_id" validate:"required"`
	OutcomeID string `json:"outcome_id" validate:"required"`
	Odds      string `json:"odds" validate:"required,odds"`
}

type PlaceWagerRequest struct {
	Stake      string             `json:"stake" validate:"required,money"`
	Selections []SelectionRequest `json:"selections" validate:"required,min=1,dive"`
}

func (h *WagerHandler) HandlePlaceWager(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserIDFromRequest(r, w)
	if !ok {
		return
	}

	var req PlaceWagerRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Place wager"); err != nil {
		return
	}

	// Validation already guaranteed the fields parse
	stake, _ := decimal.NewFromString(req.Stake)
	selections := make([]domain.Selection, 0, len(req.Selections))
	for _, sel := range req.Selections {
		contestID, _ := uuid.Parse(sel.ContestID)
		odds, _ := decimal.NewFromString(sel.Odds)
		selections = append(selections, domain.Selection{
			ContestID: contestID,
			MarketID:  sel.MarketID,
			OutcomeID: sel.OutcomeID,
			Odds:      odds,
		})
	}

	placed, err := h.service.Place(r.Context(), ownerID, stake, selections, r.Header.Get(HeaderIdempotencyKey))
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgPlaceWagerFailed, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusCreated, placed)
}

func (h *WagerHandler) HandleGetWager(w http.ResponseWriter, r *http.Request) {
	wagerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, ErrMsgInvalidWagerID, http.StatusBadRequest)
		return
	}

	got, err := h.service.Get(r.Context(), wagerID)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgGetWagerFailed, "error", err, "wager_id", wagerID)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, got)
}

func (h *WagerHandler) HandleListWagers(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserIDFromRequest(r, w)
	if !ok {
		return
	}
	limit, ok := GetLimitParam(r, w, DefaultMovementLimit)
	if !ok {
		return
	}

	wagers, err := h.service.ListByOwner(r.Context(), ownerID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListWagersFailed, "error", err, "owner_id", ownerID)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: wagers})
}
