package reconcile

import "strings"

// GatewayStatus is the tri-state every upstream status string collapses to
type GatewayStatus int

const (
	StatusIndeterminate GatewayStatus = iota
	StatusSuccess
	StatusFailed
)

func (s GatewayStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "indeterminate"
	}
}

// Upstream vocabularies. Payment gateways and SMS delivery receipts each
// use their own strings; every new variant goes in these tables and nowhere
// else.
var successStatuses = map[string]struct{}{
	"success":    {},
	"successful": {},
	"completed":  {},
	"complete":   {},
	"paid":       {},
	"confirmed":  {},
	"ok":         {},
	"delivrd":    {}, // SMPP delivery receipt
	"delivered":  {},
}

var failureStatuses = map[string]struct{}{
	"failed":      {},
	"failure":     {},
	"error":       {},
	"declined":    {},
	"rejected":    {},
	"cancelled":   {},
	"canceled":    {},
	"expired":     {},
	"undeliv":     {}, // SMPP delivery receipt
	"undelivered": {},
}

// NormalizeStatus is the single boundary where upstream status vocabulary
// enters the system. Anything not recognized is indeterminate and must not
// change stored state.
func NormalizeStatus(reported string) GatewayStatus {
	s := strings.ToLower(strings.TrimSpace(reported))
	if _, ok := successStatuses[s]; ok {
		return StatusSuccess
	}
	if _, ok := failureStatuses[s]; ok {
		return StatusFailed
	}
	return StatusIndeterminate
}
