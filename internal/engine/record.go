package engine

import (
	"fmt"
	"strings"
)

// RecordType enumerates the transaction kinds accepted by the engine.
type RecordType string

const (
	RecordDeposit    RecordType = "deposit"
	RecordWithdrawal RecordType = "withdrawal"
	RecordDispute    RecordType = "dispute"
	RecordResolve    RecordType = "resolve"
	RecordChargeback RecordType = "chargeback"
)

// ParseRecordType normalizes free-form input into a RecordType.
func ParseRecordType(s string) (RecordType, error) {
	t := RecordType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case RecordDeposit, RecordWithdrawal, RecordDispute, RecordResolve, RecordChargeback:
		return t, nil
	}
	return "", fmt.Errorf("unknown record type %q", s)
}

// Record is one already-parsed input transaction. Amount is the raw decimal
// text; it stays unparsed until the ledger validates it, and an empty string
// means the field was absent. Dispute, resolve and chargeback records carry
// no amount of their own.
type Record struct {
	Type   RecordType
	Client uint16
	Tx     uint32
	Amount string
}
