package model

import (
	"fmt"
)

// TxType distinguishes deposits from withdrawals
type TxType int8

// These are the available transaction types
const (
	TxTypeDeposit    TxType = 0
	TxTypeWithdrawal TxType = 1
)

// String is the stringer function
func (t TxType) String() string {
	if t == TxTypeWithdrawal {
		return "withdrawal"
	}
	return "deposit"
}

// TxStatus is the state of a deposit or withdrawal; TxStatusOK means confirmed
type TxStatus int8

// These are the available transaction states
const (
	TxStatusUnknown  TxStatus = 0
	TxStatusPending  TxStatus = 1
	TxStatusOK       TxStatus = 2
	TxStatusFailed   TxStatus = 3
	TxStatusCanceled TxStatus = 4
)

// String is the stringer function
func (s TxStatus) String() string {
	switch s {
	case TxStatusPending:
		return "pending"
	case TxStatusOK:
		return "ok"
	case TxStatusFailed:
		return "failed"
	case TxStatusCanceled:
		return "canceled"
	}
	return "unknown"
}

// IsTerminal returns true if the transaction can no longer change
func (s TxStatus) IsTerminal() bool {
	return s == TxStatusOK || s == TxStatusFailed || s == TxStatusCanceled
}

// Transaction is a deposit or a withdrawal
type Transaction struct {
	ID        string
	TxID      string
	Type      TxType
	Status    TxStatus
	Amount    Money
	Fee       *Money
	Address   string
	Timestamp *Timestamp
	Info      map[string]interface{}
}

// Currency is a convenience accessor
func (t Transaction) Currency() string {
	return t.Amount.Currency()
}

// String is the stringer function
func (t Transaction) String() string {
	return fmt.Sprintf("Transaction[id=%s, type=%s, status=%s, amount=%s, address=%s, ts=%s]",
		t.ID,
		t.Type,
		t.Status,
		t.Amount,
		t.Address,
		checkedString(t.Timestamp),
	)
}
