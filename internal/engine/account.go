package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountLocked occurs on any operation against an account that has
	// been locked by a chargeback.
	ErrAccountLocked = errors.New("account is locked")

	// ErrTxExists occurs when a deposit or withdrawal reuses a transaction id
	// already recorded on the account.
	ErrTxExists = errors.New("transaction already exists")

	// ErrTxUnknown occurs when a dispute, resolve or chargeback references a
	// transaction id the account has never seen.
	ErrTxUnknown = errors.New("unknown transaction")

	// ErrWithdrawalLimit occurs when a withdrawal exceeds the available funds.
	ErrWithdrawalLimit = errors.New("withdrawal limit exceeded")

	// ErrTxDisputed occurs when a dispute targets a transaction already under
	// dispute.
	ErrTxDisputed = errors.New("transaction already disputed")

	// ErrTxNotDisputed occurs when a resolve or chargeback targets a
	// transaction that is not under dispute.
	ErrTxNotDisputed = errors.New("transaction not disputed")

	// ErrWithdrawalDispute occurs when a dispute, resolve or chargeback
	// targets a withdrawal; only deposits can be disputed.
	ErrWithdrawalDispute = errors.New("withdrawal cannot be disputed")
)

// OpError wraps an operation failure with the transaction id that caused it.
type OpError struct {
	Tx  uint32
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("tx %d: %v", e.Tx, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(tx uint32, err error) error {
	return &OpError{Tx: tx, Err: err}
}

type txKind int

const (
	txDeposit txKind = iota
	txWithdrawal
)

// accountTx is a transaction recorded on one account. The amount is fixed at
// creation; only the disputed flag ever changes.
type accountTx struct {
	amount   Amount
	kind     txKind
	disputed bool
}

// Account owns one client's balances and transaction history. Every operation
// either applies fully or leaves the account untouched, and once locked the
// account rejects everything.
type Account struct {
	id        uint16
	available Amount
	held      Amount
	locked    bool
	txs       map[uint32]*accountTx
}

// NewAccount creates an empty, unlocked account for the given client.
func NewAccount(clientID uint16) *Account {
	return &Account{
		id:  clientID,
		txs: make(map[uint32]*accountTx),
	}
}

// ID returns the client id the account belongs to.
func (a *Account) ID() uint16 { return a.id }

// Available returns the spendable balance.
func (a *Account) Available() Amount { return a.available }

// Held returns the balance frozen pending dispute resolution.
func (a *Account) Held() Amount { return a.held }

// IsLocked reports whether a chargeback has locked the account.
func (a *Account) IsLocked() bool { return a.locked }

// Deposit credits amount to the available balance under a new transaction id.
func (a *Account) Deposit(tx uint32, amount Amount) error {
	if a.locked {
		return opError(tx, ErrAccountLocked)
	}
	if _, exists := a.txs[tx]; exists {
		return opError(tx, ErrTxExists)
	}

	available, err := a.available.Add(amount)
	if err != nil {
		return opError(tx, err)
	}

	a.available = available
	a.txs[tx] = &accountTx{amount: amount, kind: txDeposit}
	return nil
}

// Withdraw debits amount from the available balance under a new transaction
// id. A withdrawal that would drive the balance negative is rejected whole.
func (a *Account) Withdraw(tx uint32, amount Amount) error {
	if a.locked {
		return opError(tx, ErrAccountLocked)
	}
	if _, exists := a.txs[tx]; exists {
		return opError(tx, ErrTxExists)
	}
	if a.available.Cmp(amount) < 0 {
		return opError(tx, ErrWithdrawalLimit)
	}

	available, err := a.available.Sub(amount)
	if err != nil {
		return opError(tx, err)
	}

	a.available = available
	a.txs[tx] = &accountTx{amount: amount, kind: txWithdrawal}
	return nil
}

// Dispute freezes the funds of a recorded deposit, moving them from available
// to held until resolved or charged back.
func (a *Account) Dispute(tx uint32) error {
	if a.locked {
		return opError(tx, ErrAccountLocked)
	}
	rec, ok := a.txs[tx]
	if !ok {
		return opError(tx, ErrTxUnknown)
	}
	if rec.disputed {
		return opError(tx, ErrTxDisputed)
	}
	if rec.kind == txWithdrawal {
		return opError(tx, ErrWithdrawalDispute)
	}

	available, err := a.available.Sub(rec.amount)
	if err != nil {
		return opError(tx, err)
	}
	held, err := a.held.Add(rec.amount)
	if err != nil {
		return opError(tx, err)
	}

	a.available = available
	a.held = held
	rec.disputed = true
	return nil
}

// Resolve releases a disputed deposit, returning its funds to available.
func (a *Account) Resolve(tx uint32) error {
	if a.locked {
		return opError(tx, ErrAccountLocked)
	}
	rec, ok := a.txs[tx]
	if !ok {
		return opError(tx, ErrTxUnknown)
	}
	if !rec.disputed {
		return opError(tx, ErrTxNotDisputed)
	}
	// Unreachable today: a withdrawal never gets its disputed flag set.
	if rec.kind == txWithdrawal {
		return opError(tx, ErrWithdrawalDispute)
	}

	held, err := a.held.Sub(rec.amount)
	if err != nil {
		return opError(tx, err)
	}
	available, err := a.available.Add(rec.amount)
	if err != nil {
		return opError(tx, err)
	}

	a.held = held
	a.available = available
	rec.disputed = false
	return nil
}

// Chargeback finalizes a dispute against the operator: the held funds are
// removed, not returned, and the account is locked for good.
func (a *Account) Chargeback(tx uint32) error {
	if a.locked {
		return opError(tx, ErrAccountLocked)
	}
	rec, ok := a.txs[tx]
	if !ok {
		return opError(tx, ErrTxUnknown)
	}
	if !rec.disputed {
		return opError(tx, ErrTxNotDisputed)
	}
	if rec.kind == txWithdrawal {
		return opError(tx, ErrWithdrawalDispute)
	}

	held, err := a.held.Sub(rec.amount)
	if err != nil {
		return opError(tx, err)
	}

	a.held = held
	a.locked = true
	rec.disputed = false
	return nil
}
