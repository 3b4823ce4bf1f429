// SPDX-License-Identifier: Unlicense OR MIT

package send

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoFees            = errors.New("send: fee rates unavailable")
	ErrInvalidAddress    = errors.New("send: invalid address")
	ErrOwnAddress        = errors.New("send: address belongs to this wallet")
	ErrOutputTooSmall    = errors.New("send: amount below minimum output")
	ErrInsufficientFunds = errors.New("send: insufficient funds")
	ErrCreateTransaction = errors.New("send: could not create transaction")
	ErrInsufficientGas   = errors.New("send: insufficient gas for token transfer")
)

// Status is the outcome of creating a transaction.
type Status uint8

const (
	StatusOK Status = iota
	// StatusNoExchangeRate means the transaction was created without
	// fiat metadata.
	StatusNoExchangeRate
	StatusNoFees
	StatusInvalidAddress
	StatusOwnAddress
	StatusOutputTooSmall
	StatusInsufficientFunds
	StatusFailed
	StatusInsufficientGas
)

// Result is returned by Sender.CreateTransaction.
type Result struct {
	Status Status
	// MinOutput is the smallest allowed amount for StatusOutputTooSmall.
	MinOutput decimal.Decimal
}

// Err returns the error describing r, or nil if the transaction was
// created.
func (r Result) Err() error {
	switch r.Status {
	case StatusOK, StatusNoExchangeRate:
		return nil
	case StatusNoFees:
		return ErrNoFees
	case StatusInvalidAddress:
		return ErrInvalidAddress
	case StatusOwnAddress:
		return ErrOwnAddress
	case StatusOutputTooSmall:
		return fmt.Errorf("%w: minimum is %s", ErrOutputTooSmall, r.MinOutput)
	case StatusInsufficientFunds:
		return ErrInsufficientFunds
	case StatusInsufficientGas:
		return ErrInsufficientGas
	default:
		return ErrCreateTransaction
	}
}

// Proceed reports whether the send flow continues to confirmation.
// Insufficient funds are reported to the user but do not stop the flow.
func (r Result) Proceed() bool {
	switch r.Status {
	case StatusOK, StatusNoExchangeRate, StatusInsufficientFunds:
		return true
	}
	return false
}

// FeeLevel selects a fee rate.
type FeeLevel uint8

const (
	FeeRegular FeeLevel = iota
	FeeEconomy
)

// Fees are the current fee rates of a currency.
type Fees struct {
	Regular decimal.Decimal
	Economy decimal.Decimal
}

// PinVerifier asks the user to authorize a transaction and returns the
// entered PIN.
type PinVerifier func(ctx context.Context) (pin string, err error)

// Sender builds and publishes transactions.
type Sender interface {
	CreateTransaction(address string, amount decimal.Decimal, comment, data string) Result
	// Fee returns the fee for sending amount, if it can be estimated.
	Fee(amount decimal.Decimal) (decimal.Decimal, bool)
	UpdateFeeRates(fees Fees, level FeeLevel)
	SendTransaction(ctx context.Context, verify PinVerifier) error
	// Reset discards the transaction being built.
	Reset()
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNoExchangeRate:
		return "NoExchangeRate"
	case StatusNoFees:
		return "NoFees"
	case StatusInvalidAddress:
		return "InvalidAddress"
	case StatusOwnAddress:
		return "OwnAddress"
	case StatusOutputTooSmall:
		return "OutputTooSmall"
	case StatusInsufficientFunds:
		return "InsufficientFunds"
	case StatusFailed:
		return "Failed"
	case StatusInsufficientGas:
		return "InsufficientGas"
	default:
		panic("invalid Status")
	}
}
