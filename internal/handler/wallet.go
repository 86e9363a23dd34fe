package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/logger"
)

// WalletReader is the read-only slice of the ledger the wallet endpoint needs
type WalletReader interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	ListMovements(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Movement, error)
}

type WalletHandler struct {
	ledger WalletReader
}

func NewWalletHandler(ledger WalletReader) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// WalletResponse bundles the balance snapshot with recent movements
type WalletResponse struct {
	Wallet    *domain.Wallet    `json:"wallet"`
	Movements []domain.Movement `json:"movements"`
}

func (h *WalletHandler) HandleGetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromRequest(r, w)
	if !ok {
		return
	}
	limit, ok := GetLimitParam(r, w, DefaultMovementLimit)
	if !ok {
		return
	}

	wallet, err := h.ledger.GetWallet(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgGetWalletFailed, "error", err, "user_id", userID)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	movements, err := h.ledger.ListMovements(r.Context(), wallet.ID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgGetWalletFailed, "error", err, "wallet_id", wallet.ID)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, WalletResponse{Wallet: wallet, Movements: movements})
}
