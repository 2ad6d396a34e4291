package engine

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrDuplicateTx occurs when a deposit or withdrawal reuses a transaction
	// id already consumed anywhere in the ledger.
	ErrDuplicateTx = errors.New("duplicate transaction id")

	// ErrMissingAmount occurs when a deposit or withdrawal record carries no
	// amount field.
	ErrMissingAmount = errors.New("missing transaction amount")

	// ErrNegativeAmount occurs when a deposit or withdrawal carries an amount
	// below zero.
	ErrNegativeAmount = errors.New("negative transaction amount")

	// ErrUnknownAccount occurs when a snapshot is requested for a client the
	// ledger has never seen.
	ErrUnknownAccount = errors.New("unknown account")
)

// Ledger routes transaction records to per-client accounts, creating accounts
// lazily, and guards transaction ids of value-creating records against reuse
// across the whole ledger. A failure only ever affects the record that caused
// it; the caller decides whether to log and is expected to keep streaming.
type Ledger struct {
	accounts  map[uint16]*Account
	processed map[uint32]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts:  make(map[uint16]*Account),
		processed: make(map[uint32]struct{}),
	}
}

// Process applies one transaction record. Deposits and withdrawals are
// validated before the target account is even created, so a rejected record
// cannot leave an empty account behind. Dispute, resolve and chargeback
// reference existing transaction ids and skip amount and duplicate checks.
func (l *Ledger) Process(rec Record) error {
	switch rec.Type {
	case RecordDeposit, RecordWithdrawal:
		if _, seen := l.processed[rec.Tx]; seen {
			return opError(rec.Tx, ErrDuplicateTx)
		}
		if rec.Amount == "" {
			return opError(rec.Tx, ErrMissingAmount)
		}
		amount, err := ParseAmount(rec.Amount)
		if err != nil {
			return opError(rec.Tx, err)
		}
		if amount.IsNegative() {
			return opError(rec.Tx, ErrNegativeAmount)
		}

		account := l.account(rec.Client)
		if rec.Type == RecordDeposit {
			err = account.Deposit(rec.Tx, amount)
		} else {
			err = account.Withdraw(rec.Tx, amount)
		}
		if err != nil {
			return err
		}
		l.processed[rec.Tx] = struct{}{}
		return nil

	case RecordDispute:
		return l.account(rec.Client).Dispute(rec.Tx)
	case RecordResolve:
		return l.account(rec.Client).Resolve(rec.Tx)
	case RecordChargeback:
		return l.account(rec.Client).Chargeback(rec.Tx)
	}

	return fmt.Errorf("unknown record type %q", rec.Type)
}

// Account returns the live account for a client, if one exists.
func (l *Ledger) Account(clientID uint16) (*Account, bool) {
	account, ok := l.accounts[clientID]
	return account, ok
}

// Snapshot projects one client's account. Reports ErrUnknownAccount for a
// client the ledger has never seen and ErrOverflow when the total cannot be
// computed.
func (l *Ledger) Snapshot(clientID uint16) (AccountSnapshot, error) {
	account, ok := l.accounts[clientID]
	if !ok {
		return AccountSnapshot{}, ErrUnknownAccount
	}
	return snapshotOf(account)
}

// Snapshots projects every account. An account whose total overflows is left
// out of the report instead of failing it; onSkip, when non-nil, is told
// about each omission. Order follows map iteration and is unspecified.
func (l *Ledger) Snapshots(onSkip func(clientID uint16, err error)) []AccountSnapshot {
	out := make([]AccountSnapshot, 0, len(l.accounts))
	for id, account := range l.accounts {
		snap, err := snapshotOf(account)
		if err != nil {
			if onSkip != nil {
				onSkip(id, err)
			}
			continue
		}
		out = append(out, snap)
	}
	return out
}

func (l *Ledger) account(clientID uint16) *Account {
	account, ok := l.accounts[clientID]
	if !ok {
		account = NewAccount(clientID)
		l.accounts[clientID] = account
	}
	return account
}

func snapshotOf(account *Account) (AccountSnapshot, error) {
	total, err := account.available.Add(account.held)
	if err != nil {
		return AccountSnapshot{}, err
	}
	return AccountSnapshot{
		Client:    strconv.FormatUint(uint64(account.id), 10),
		Available: account.available.String(),
		Held:      account.held.String(),
		Total:     total.String(),
		Locked:    account.locked,
	}, nil
}
