package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/repository"
)

type UserHandler struct {
	users repository.User
}

func NewUserHandler(users repository.User) *UserHandler {
	return &UserHandler{users: users}
}

type RegisterUserRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=32"`
	ReferralCode string `json:"referral_code,omitempty" validate:"omitempty,min=4,max=32"`
}

// HandleRegisterUser creates an account with an empty wallet. When a
// referral code accompanies the registration a pending referral is recorded
// against the code's owner; it completes on the first qualifying deposit.
func (h *UserHandler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
		return
	}

	u := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		ReferralCode: uuid.NewString()[:8],
	}

	if err := h.users.CreateUser(r.Context(), u, req.ReferralCode); err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgRegisterUserFailed, "error", err, "username", req.Username)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgUserRegisteredSuccess, Data: u})
}
