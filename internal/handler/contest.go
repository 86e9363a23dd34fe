package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/contest"
	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/logger"
)

type ContestHandler struct {
	service contest.Service
}

func NewContestHandler(service contest.Service) *ContestHandler {
	return &ContestHandler{service: service}
}

// ContestResponse pairs the contest snapshot with the countdown to its next
// phase transition
type ContestResponse struct {
	Contest          *domain.Contest `json:"contest"`
	RemainingSeconds float64         `json:"remaining_seconds"`
}

func (h *ContestHandler) HandleGetContest(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, ErrMsgInvalidContestID, http.StatusBadRequest)
		return
	}

	c, remaining, err := h.service.Get(r.Context(), contestID)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgGetContestFailed, "error", err, "contest_id", contestID)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, ContestResponse{
		Contest:          c,
		RemainingSeconds: remaining.Seconds(),
	})
}

type CreateContestRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
	Seed       int64  `json:"seed"`
}

func (h *ContestHandler) HandleCreateContest(w http.ResponseWriter, r *http.Request) {
	var req CreateContestRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create contest"); err != nil {
		return
	}

	c, err := h.service.Create(r.Context(), req.TemplateID, req.Seed)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgCreateContestFailed, "error", err, "template_id", req.TemplateID)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

// HandleVoidContest terminally voids a contest. Pending wagers on it are
// refunded by the settlement pass the void event triggers. Repeat calls are
// no-ops and still answer 200.
func (h *ContestHandler) HandleVoidContest(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, ErrMsgInvalidContestID, http.StatusBadRequest)
		return
	}

	if err := h.service.Void(r.Context(), contestID); err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgVoidContestFailed, "error", err, "contest_id", contestID)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgContestVoidedSuccess})
}
