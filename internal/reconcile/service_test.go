package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
)

func testParams() Params {
	return Params{
		DepositThreshold: decimal.RequireFromString("10"),
		ReferralBonus:    decimal.RequireFromString("5"),
		ClickTarget:      10,
		ClickBonus:       decimal.RequireFromString("2"),
		ClickBonusTTL:    72 * time.Hour,
	}
}

func newTestService(t *testing.T, ledger *MockLedgerRepository, referrals *MockReferralRepository) (Service, event.Bus) {
	t.Helper()
	bus := event.NewMemoryBus()
	svc, err := NewService(ledger, referrals, bus, testParams())
	require.NoError(t, err)
	return svc, bus
}

func pendingDeposit(amount string) *domain.Movement {
	return &domain.Movement{
		ID:          uuid.New(),
		WalletID:    uuid.New(),
		Kind:        domain.MovementDeposit,
		Amount:      decimal.RequireFromString(amount),
		ExternalRef: "pay-123",
		Status:      domain.MovementStatusPending,
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want GatewayStatus
	}{
		{"success", StatusSuccess},
		{"COMPLETED", StatusSuccess},
		{"Paid", StatusSuccess},
		{"DELIVRD", StatusSuccess},
		{" delivered ", StatusSuccess},
		{"failed", StatusFailed},
		{"DECLINED", StatusFailed},
		{"UNDELIV", StatusFailed},
		{"expired", StatusFailed},
		{"processing", StatusIndeterminate},
		{"", StatusIndeterminate},
		{"banana", StatusIndeterminate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeStatus(tt.in), "input %q", tt.in)
	}
}

func TestConfirmDeposit_SuccessCreditsWallet(t *testing.T) {
	ledger := new(MockLedgerRepository)
	referrals := new(MockReferralRepository)
	tx := new(MockReconcileTx)
	svc, bus := newTestService(t, ledger, referrals)

	var confirmed []event.Event
	bus.Subscribe(event.Type(domain.EventDepositConfirmed), func(_ context.Context, e event.Event) error {
		confirmed = append(confirmed, e)
		return nil
	})

	m := pendingDeposit("8")
	userID := uuid.New()
	wallet := &domain.Wallet{ID: m.WalletID, UserID: userID, Balance: decimal.RequireFromString("8")}

	ledger.On("GetMovementByExternalRef", mock.Anything, "pay-123").Return(m, nil)
	ledger.On("BeginReconcileTx", mock.Anything).Return(tx, nil)
	tx.On("UpdateMovementStatusIfMatches", mock.Anything, m.ID, domain.MovementStatusPending, domain.MovementStatusSuccess, mock.Anything).Return(1, nil)
	tx.On("GetWalletByID", mock.Anything, m.WalletID).Return(wallet, nil)
	tx.On("ApplyWalletDelta", mock.Anything, userID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(m.Amount)
	})).Return(wallet, nil)
	// The pending movement carried 0/0; confirmation stamps the real span
	tx.On("SetMovementBalances", mock.Anything, m.ID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.Zero)
	}), mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("8"))
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	err := svc.ConfirmDeposit(context.Background(), "pay-123", "success", []byte(`{"ok":true}`))
	require.NoError(t, err)

	// Below threshold: no referral lookup at all
	tx.AssertNotCalled(t, "GetPendingReferralByReferred", mock.Anything, mock.Anything)
	require.Len(t, confirmed, 1)
	payload := confirmed[0].Payload.(event.DepositConfirmedPayloadV1)
	assert.Equal(t, "pay-123", payload.ExternalRef)
	tx.AssertExpectations(t)
}

func TestConfirmDeposit_UnknownReferenceDiscarded(t *testing.T) {
	ledger := new(MockLedgerRepository)
	svc, _ := newTestService(t, ledger, new(MockReferralRepository))

	ledger.On("GetMovementByExternalRef", mock.Anything, "nope").Return(nil, nil)

	err := svc.ConfirmDeposit(context.Background(), "nope", "success", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
	ledger.AssertNotCalled(t, "BeginReconcileTx", mock.Anything)
}

func TestConfirmDeposit_DuplicateTerminalMovement(t *testing.T) {
	ledger := new(MockLedgerRepository)
	svc, _ := newTestService(t, ledger, new(MockReferralRepository))

	m := pendingDeposit("20")
	m.Status = domain.MovementStatusSuccess
	ledger.On("GetMovementByExternalRef", mock.Anything, "pay-123").Return(m, nil)

	err := svc.ConfirmDeposit(context.Background(), "pay-123", "success", nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)
	ledger.AssertNotCalled(t, "BeginReconcileTx", mock.Anything)
}

func TestConfirmDeposit_LostCASIsDuplicate(t *testing.T) {
	ledger := new(MockLedgerRepository)
	tx := new(MockReconcileTx)
	svc, _ := newTestService(t, ledger, new(MockReferralRepository))

	m := pendingDeposit("20")
	ledger.On("GetMovementByExternalRef", mock.Anything, "pay-123").Return(m, nil)
	ledger.On("BeginReconcileTx", mock.Anything).Return(tx, nil)
	tx.On("UpdateMovementStatusIfMatches", mock.Anything, m.ID, domain.MovementStatusPending, domain.MovementStatusSuccess, mock.Anything).Return(0, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	err := svc.ConfirmDeposit(context.Background(), "pay-123", "success", nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)
	tx.AssertNotCalled(t, "ApplyWalletDelta", mock.Anything, mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestConfirmDeposit_IndeterminateStatusLeavesPending(t *testing.T) {
	ledger := new(MockLedgerRepository)
	svc, _ := newTestService(t, ledger, new(MockReferralRepository))

	m := pendingDeposit("20")
	ledger.On("GetMovementByExternalRef", mock.Anything, "pay-123").Return(m, nil)

	err := svc.ConfirmDeposit(context.Background(), "pay-123", "processing", nil)
	require.NoError(t, err)
	ledger.AssertNotCalled(t, "BeginReconcileTx", mock.Anything)
}

func TestConfirmDeposit_FailureOnlyFlipsStatus(t *testing.T) {
	ledger := new(MockLedgerRepository)
	tx := new(MockReconcileTx)
	svc, _ := newTestService(t, ledger, new(MockReferralRepository))

	m := pendingDeposit("20")
	ledger.On("GetMovementByExternalRef", mock.Anything, "pay-123").Return(m, nil)
	ledger.On("BeginReconcileTx", mock.Anything).Return(tx, nil)
	tx.On("UpdateMovementStatusIfMatches", mock.Anything, m.ID, domain.MovementStatusPending, domain.MovementStatusFailed, mock.Anything).Return(1, nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	err := svc.ConfirmDeposit(context.Background(), "pay-123", "declined", nil)
	require.NoError(t, err)

	tx.AssertNotCalled(t, "ApplyWalletDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmDeposit_QualifyingDepositCompletesReferral(t *testing.T) {
	ledger := new(MockLedgerRepository)
	referrals := new(MockReferralRepository)
	tx := new(MockReconcileTx)
	svc, bus := newTestService(t, ledger, referrals)

	var referralEvents []event.Event
	bus.Subscribe(event.Type(domain.EventReferralCompleted), func(_ context.Context, e event.Event) error {
		referralEvents = append(referralEvents, e)
		return nil
	})

	m := pendingDeposit("15")
	userID := uuid.New()
	referrerID := uuid.New()
	wallet := &domain.Wallet{ID: m.WalletID, UserID: userID, Balance: decimal.RequireFromString("15")}
	referrerWallet := &domain.Wallet{ID: uuid.New(), UserID: referrerID, Balance: decimal.RequireFromString("55")}
	ref := &domain.Referral{ID: uuid.New(), ReferrerID: referrerID, ReferredUserID: userID, Status: domain.ReferralStatusPending}

	ledger.On("GetMovementByExternalRef", mock.Anything, "pay-123").Return(m, nil)
	ledger.On("BeginReconcileTx", mock.Anything).Return(tx, nil)
	tx.On("UpdateMovementStatusIfMatches", mock.Anything, m.ID, domain.MovementStatusPending, domain.MovementStatusSuccess, mock.Anything).Return(1, nil)
	tx.On("GetWalletByID", mock.Anything, m.WalletID).Return(wallet, nil)
	tx.On("ApplyWalletDelta", mock.Anything, userID, mock.Anything).Return(wallet, nil)
	tx.On("SetMovementBalances", mock.Anything, m.ID, mock.Anything, mock.Anything).Return(nil)
	tx.On("GetPendingReferralByReferred", mock.Anything, userID).Return(ref, nil)
	tx.On("CompleteReferralIfPending", mock.Anything, ref.ID).Return(1, nil)
	tx.On("ApplyWalletDelta", mock.Anything, referrerID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("5"))
	})).Return(referrerWallet, nil)
	tx.On("CreateMovement", mock.Anything, mock.MatchedBy(func(mv *domain.Movement) bool {
		return mv.Kind == domain.MovementReferralBonus && mv.WalletID == referrerWallet.ID
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	err := svc.ConfirmDeposit(context.Background(), "pay-123", "completed", nil)
	require.NoError(t, err)

	require.Len(t, referralEvents, 1)
	payload := referralEvents[0].Payload.(event.ReferralCompletedPayloadV1)
	assert.Equal(t, referrerID, payload.ReferrerID)
	tx.AssertExpectations(t)
}

func TestConfirmDeposit_ReferralAlreadyCompletedSkipsBonus(t *testing.T) {
	ledger := new(MockLedgerRepository)
	referrals := new(MockReferralRepository)
	tx := new(MockReconcileTx)
	svc, _ := newTestService(t, ledger, referrals)

	m := pendingDeposit("15")
	userID := uuid.New()
	wallet := &domain.Wallet{ID: m.WalletID, UserID: userID, Balance: decimal.RequireFromString("15")}
	ref := &domain.Referral{ID: uuid.New(), ReferrerID: uuid.New(), ReferredUserID: userID}

	ledger.On("GetMovementByExternalRef", mock.Anything, "pay-123").Return(m, nil)
	ledger.On("BeginReconcileTx", mock.Anything).Return(tx, nil)
	tx.On("UpdateMovementStatusIfMatches", mock.Anything, m.ID, domain.MovementStatusPending, domain.MovementStatusSuccess, mock.Anything).Return(1, nil)
	tx.On("GetWalletByID", mock.Anything, m.WalletID).Return(wallet, nil)
	tx.On("ApplyWalletDelta", mock.Anything, userID, mock.Anything).Return(wallet, nil)
	tx.On("SetMovementBalances", mock.Anything, m.ID, mock.Anything, mock.Anything).Return(nil)
	tx.On("GetPendingReferralByReferred", mock.Anything, userID).Return(ref, nil)
	tx.On("CompleteReferralIfPending", mock.Anything, ref.ID).Return(0, nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	err := svc.ConfirmDeposit(context.Background(), "pay-123", "success", nil)
	require.NoError(t, err)

	tx.AssertNotCalled(t, "CreateMovement", mock.Anything, mock.Anything)
}

func TestInitiateDeposit_RecordsPendingMovement(t *testing.T) {
	ledger := new(MockLedgerRepository)
	svc, _ := newTestService(t, ledger, new(MockReferralRepository))

	userID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), UserID: userID}
	ledger.On("GetWallet", mock.Anything, userID).Return(wallet, nil)
	ledger.On("CreateMovement", mock.Anything, mock.MatchedBy(func(m *domain.Movement) bool {
		return m.Kind == domain.MovementDeposit &&
			m.Status == domain.MovementStatusPending &&
			m.ExternalRef == "pay-9" &&
			m.WalletID == wallet.ID
	})).Return(nil)

	m, err := svc.InitiateDeposit(context.Background(), userID, decimal.RequireFromString("25"), "pay-9")
	require.NoError(t, err)
	assert.Equal(t, domain.MovementStatusPending, m.Status)
}

func TestInitiateDeposit_Validation(t *testing.T) {
	svc, _ := newTestService(t, new(MockLedgerRepository), new(MockReferralRepository))

	_, err := svc.InitiateDeposit(context.Background(), uuid.New(), decimal.Zero, "ref")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.InitiateDeposit(context.Background(), uuid.New(), decimal.RequireFromString("5"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordClick_MilestoneIssuesBonusOnce(t *testing.T) {
	ledger := new(MockLedgerRepository)
	referrals := new(MockReferralRepository)
	tx := new(MockReconcileTx)
	svc, _ := newTestService(t, ledger, referrals)

	referrerID := uuid.New()
	user := &domain.User{ID: referrerID, ReferralCode: "CODE1"}
	wallet := &domain.Wallet{ID: uuid.New(), UserID: referrerID, BonusBalance: decimal.RequireFromString("2")}

	referrals.On("GetUserByReferralCode", mock.Anything, "CODE1").Return(user, nil)
	referrals.On("RecordClick", mock.Anything, "CODE1", "10.0.0.1").Return(true, 10, nil)
	referrals.On("ClaimClickReward", mock.Anything, referrerID).Return(1, nil)
	ledger.On("BeginReconcileTx", mock.Anything).Return(tx, nil)
	tx.On("ApplyBonusDelta", mock.Anything, referrerID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("2"))
	})).Return(wallet, nil)
	tx.On("SetBonusExpiry", mock.Anything, referrerID, mock.Anything).Return(nil)
	// The milestone credit lands on the bonus balance under its own kind
	tx.On("CreateMovement", mock.Anything, mock.MatchedBy(func(m *domain.Movement) bool {
		return m.Kind == domain.MovementClickBonus &&
			m.BalanceBefore.Equal(decimal.Zero) &&
			m.BalanceAfter.Equal(decimal.RequireFromString("2"))
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	require.NoError(t, svc.RecordClick(context.Background(), "CODE1", "10.0.0.1"))
	tx.AssertExpectations(t)
}

func TestRecordClick_BelowTargetNoBonus(t *testing.T) {
	ledger := new(MockLedgerRepository)
	referrals := new(MockReferralRepository)
	svc, _ := newTestService(t, ledger, referrals)

	user := &domain.User{ID: uuid.New(), ReferralCode: "CODE1"}
	referrals.On("GetUserByReferralCode", mock.Anything, "CODE1").Return(user, nil)
	referrals.On("RecordClick", mock.Anything, "CODE1", "10.0.0.1").Return(true, 3, nil)

	require.NoError(t, svc.RecordClick(context.Background(), "CODE1", "10.0.0.1"))
	referrals.AssertNotCalled(t, "ClaimClickReward", mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "BeginReconcileTx", mock.Anything)
}

func TestRecordClick_CachedDuplicateSkipsRepository(t *testing.T) {
	ledger := new(MockLedgerRepository)
	referrals := new(MockReferralRepository)
	svc, _ := newTestService(t, ledger, referrals)

	user := &domain.User{ID: uuid.New(), ReferralCode: "CODE1"}
	referrals.On("GetUserByReferralCode", mock.Anything, "CODE1").Return(user, nil).Once()
	referrals.On("RecordClick", mock.Anything, "CODE1", "10.0.0.1").Return(true, 1, nil).Once()

	require.NoError(t, svc.RecordClick(context.Background(), "CODE1", "10.0.0.1"))
	require.NoError(t, svc.RecordClick(context.Background(), "CODE1", "10.0.0.1"))

	referrals.AssertNumberOfCalls(t, "RecordClick", 1)
}

func TestRecordClick_DBDuplicateNotCounted(t *testing.T) {
	ledger := new(MockLedgerRepository)
	referrals := new(MockReferralRepository)
	svc, _ := newTestService(t, ledger, referrals)

	user := &domain.User{ID: uuid.New(), ReferralCode: "CODE1"}
	referrals.On("GetUserByReferralCode", mock.Anything, "CODE1").Return(user, nil)
	// Another instance saw this address first; the unique constraint reports
	// it as a duplicate here
	referrals.On("RecordClick", mock.Anything, "CODE1", "10.0.0.1").Return(false, 10, nil)

	require.NoError(t, svc.RecordClick(context.Background(), "CODE1", "10.0.0.1"))
	referrals.AssertNotCalled(t, "ClaimClickReward", mock.Anything, mock.Anything)
}

func TestRecordClick_UnknownCode(t *testing.T) {
	referrals := new(MockReferralRepository)
	svc, _ := newTestService(t, new(MockLedgerRepository), referrals)

	referrals.On("GetUserByReferralCode", mock.Anything, "NOPE").Return(nil, domain.ErrUserNotFound)

	err := svc.RecordClick(context.Background(), "NOPE", "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestRecordClick_RewardAlreadyClaimed(t *testing.T) {
	ledger := new(MockLedgerRepository)
	referrals := new(MockReferralRepository)
	svc, _ := newTestService(t, ledger, referrals)

	user := &domain.User{ID: uuid.New(), ReferralCode: "CODE1", RewardClaimed: true}
	referrals.On("GetUserByReferralCode", mock.Anything, "CODE1").Return(user, nil)
	referrals.On("RecordClick", mock.Anything, "CODE1", "10.0.0.2").Return(true, 12, nil)

	require.NoError(t, svc.RecordClick(context.Background(), "CODE1", "10.0.0.2"))
	referrals.AssertNotCalled(t, "ClaimClickReward", mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "BeginReconcileTx", mock.Anything)
}
