package config

// Referral program defaults; amounts are in platform currency units (GHS).
const (
	DefaultReferralDepositThreshold   = "10"
	DefaultReferralBonus              = "5"
	DefaultReferralClickBonus         = "2"
	DefaultReferralClickTarget        = 10
	DefaultReferralClickBonusTTLHours = 72
)

// DefaultSettleMaxRetries bounds how often a conflicting conditional write
// is retried before the operation is surfaced as a transient failure.
const DefaultSettleMaxRetries = 3
