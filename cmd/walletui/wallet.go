// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etzwallet/walletui/send"
)

// gasLimit is the gas used by a plain transfer.
const gasLimit = 21000

var (
	addressRE = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	// dustLimit is the smallest amount the demo wallet sends.
	dustLimit = decimal.New(1, -6)
	errNoPin  = errors.New("no PIN entered")
)

// demoWallet is an in-memory wallet for one currency. Published
// transactions are deducted from the balance held by the store.
type demoWallet struct {
	code  string
	own   string
	store *send.MemStore

	rates send.Fees
	level send.FeeLevel
	tx    *pendingTx
}

type pendingTx struct {
	to     string
	amount decimal.Decimal
	fee    decimal.Decimal
	memo   string
	data   string
}

var _ send.Sender = (*demoWallet)(nil)

func newDemoWallet(code, own string, st *send.MemStore) *demoWallet {
	return &demoWallet{
		code:  code,
		own:   strings.ToLower(own),
		store: st,
		rates: st.State().Fees[code],
	}
}

func (w *demoWallet) rate() decimal.Decimal {
	if w.level == send.FeeEconomy {
		return w.rates.Economy
	}
	return w.rates.Regular
}

func (w *demoWallet) Fee(amount decimal.Decimal) (decimal.Decimal, bool) {
	r := w.rate()
	if !r.IsPositive() {
		return decimal.Zero, false
	}
	return r.Mul(decimal.NewFromInt(gasLimit)), true
}

func (w *demoWallet) UpdateFeeRates(fees send.Fees, level send.FeeLevel) {
	w.rates = fees
	w.level = level
}

func (w *demoWallet) CreateTransaction(address string, amount decimal.Decimal, comment, data string) send.Result {
	w.tx = nil
	fee, ok := w.Fee(amount)
	switch {
	case !ok:
		return send.Result{Status: send.StatusNoFees}
	case !addressRE.MatchString(address):
		return send.Result{Status: send.StatusInvalidAddress}
	case strings.ToLower(address) == w.own:
		return send.Result{Status: send.StatusOwnAddress}
	case amount.LessThan(dustLimit):
		return send.Result{Status: send.StatusOutputTooSmall, MinOutput: dustLimit}
	}
	w.tx = &pendingTx{to: address, amount: amount, fee: fee, memo: comment, data: data}
	if amount.Add(fee).GreaterThan(w.store.State().Balances[w.code]) {
		return send.Result{Status: send.StatusInsufficientFunds}
	}
	return send.Result{Status: send.StatusOK}
}

func (w *demoWallet) SendTransaction(ctx context.Context, verify send.PinVerifier) error {
	tx := w.tx
	if tx == nil {
		return send.ErrNotPrepared
	}
	if verify != nil {
		pin, err := verify(ctx)
		if err != nil {
			return err
		}
		if pin == "" {
			return errNoPin
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bal := w.store.State().Balances[w.code]
	total := tx.amount.Add(tx.fee)
	if total.GreaterThan(bal) {
		return fmt.Errorf("%w: %s %s needed", send.ErrInsufficientFunds, total, w.code)
	}
	w.tx = nil
	log.Debugf("Publishing %s %s to %s (fee %s, data %s)", tx.amount, w.code, tx.to, tx.fee, tx.data)
	w.store.SetBalance(w.code, bal.Sub(total))
	return nil
}

func (w *demoWallet) Reset() {
	w.tx = nil
}
