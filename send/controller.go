// SPDX-License-Identifier: Unlicense OR MIT

package send

import (
	"context"
	"errors"
	"fmt"

	"github.com/etzwallet/walletui/numfmt"
	"github.com/shopspring/decimal"
)

var (
	// ErrRequestWarning is returned by HandleRequest for requests that
	// need the user's consent. Call AcceptWarning to continue.
	ErrRequestWarning = errors.New("send: payment request needs confirmation")
	ErrRemoteRequest  = errors.New("send: could not load payment request")
	ErrNotPrepared    = errors.New("send: no prepared transaction")
)

// lockSymbol prefixes the name of a certified payment request recipient.
const lockSymbol = "\U0001F512"

// RequestType tells where the details of a PaymentRequest are.
type RequestType uint8

const (
	// LocalRequest carries its details in the request itself.
	LocalRequest RequestType = iota
	// RemoteRequest points at a payment protocol request to fetch.
	RemoteRequest
)

// PaymentRequest is a parsed payment URI or scanned code.
type PaymentRequest struct {
	Type           RequestType
	DisplayAddress string
	Amount         decimal.NullDecimal
	Label          string
	URL            string
	// WarningMessage is shown to the user before the request is applied.
	WarningMessage string
}

// ProtocolRequest is a fetched payment protocol request.
type ProtocolRequest struct {
	Address    string
	Amount     decimal.Decimal
	Memo       string
	CommonName string
	// PKIType is "none" for requests without a certificate.
	PKIType string
}

// RemoteFetcher loads the payment protocol request behind a URL.
type RemoteFetcher interface {
	FetchRequest(ctx context.Context, url string) (*ProtocolRequest, error)
}

// Confirmation summarizes a prepared transaction for the user.
type Confirmation struct {
	Address  string
	Amount   decimal.Decimal
	Fee      decimal.Decimal
	FeeLevel FeeLevel
	Currency Currency
}

// BalanceLine is the text under the amount field.
type BalanceLine struct {
	Balance string
	Fee     string
	// Overdraft is set when amount exceeds the balance.
	Overdraft bool
	// FeeUnavailable is set when the fee could not be estimated.
	FeeUnavailable bool
}

// Controller drives a send screen. It is not safe for concurrent use.
type Controller struct {
	Currency  Currency
	Sender    Sender
	Fetcher   RemoteFetcher
	Formatter numfmt.Formatter
	// OnPublishSuccess is called after a transaction is published.
	OnPublishSuccess func()

	Form Form
	// AddressEditable is cleared when a payment protocol request fixes
	// the recipient.
	AddressEditable bool

	balance  decimal.Decimal
	feeLevel FeeLevel
	fees     Fees
	pending  *PaymentRequest
	prepared *Confirmation
	// protoAddr is the recipient of an applied payment protocol request,
	// whose displayed address may be the recipient's name.
	protoAddr string
	unsub     []func()
}

// NewController returns a controller for sending cur through s.
func NewController(cur Currency, s Sender) *Controller {
	return &Controller{
		Currency:        cur,
		Sender:          s,
		Formatter:       numfmt.Default(),
		AddressEditable: true,
	}
}

// Attach takes the current balance and fees of the controller's currency
// from st and follows their changes.
func (c *Controller) Attach(st Store) {
	code := c.Currency.Code
	c.apply(st.State())
	c.applyFees(st.State())
	c.unsub = append(c.unsub,
		st.Subscribe(func(prev, next WalletState) bool {
			return !prev.Balances[code].Equal(next.Balances[code])
		}, c.apply),
		st.Subscribe(func(prev, next WalletState) bool {
			o, n := prev.Fees[code], next.Fees[code]
			return !o.Regular.Equal(n.Regular) || !o.Economy.Equal(n.Economy)
		}, c.applyFees),
	)
}

// Detach stops following the store.
func (c *Controller) Detach() {
	for _, u := range c.unsub {
		u()
	}
	c.unsub = nil
}

func (c *Controller) apply(s WalletState) {
	if b, ok := s.Balances[c.Currency.Code]; ok {
		c.balance = b
	}
}

func (c *Controller) applyFees(s WalletState) {
	if fees, ok := s.Fees[c.Currency.Code]; ok {
		c.fees = fees
		c.Sender.UpdateFeeRates(fees, c.feeLevel)
	}
}

// Balance returns the last known balance.
func (c *Controller) Balance() decimal.Decimal {
	return c.balance
}

// CanEditFee reports whether choosing a fee level makes a difference.
func (c *Controller) CanEditFee() bool {
	return !c.fees.Regular.Equal(c.fees.Economy)
}

// FeeLevel returns the selected fee rate.
func (c *Controller) FeeLevel() FeeLevel {
	return c.feeLevel
}

// SetFeeLevel selects the fee rate for the transaction.
func (c *Controller) SetFeeLevel(l FeeLevel) {
	c.feeLevel = l
	c.Sender.UpdateFeeRates(c.fees, l)
}

// BalanceText describes the balance and, when an amount is entered, the
// fee.
func (c *Controller) BalanceText() BalanceLine {
	code := c.Currency.DisplayCode()
	line := BalanceLine{
		Balance: fmt.Sprintf("Balance: %s %s", c.Formatter.Format(c.balance), code),
	}
	amt := c.Form.Amount
	if !amt.Valid || !amt.Decimal.IsPositive() {
		return line
	}
	fee, ok := c.Sender.Fee(amt.Decimal)
	if !ok {
		line.Fee = "Could not calculate network fee"
		line.FeeUnavailable = true
		return line
	}
	line.Fee = fmt.Sprintf("Network Fee: %s %s", c.Formatter.Format(fee), code)
	line.Overdraft = c.balance.GreaterThanOrEqual(fee) && amt.Decimal.GreaterThan(c.balance)
	return line
}

// HandleRequest fills the form from a payment request.
func (c *Controller) HandleRequest(ctx context.Context, req PaymentRequest) error {
	if req.WarningMessage != "" {
		c.pending = &req
		return fmt.Errorf("%w: %s", ErrRequestWarning, req.WarningMessage)
	}
	switch req.Type {
	case LocalRequest:
		c.Form.Address = req.DisplayAddress
		c.AddressEditable = true
		c.protoAddr = ""
		if req.Amount.Valid {
			c.Form.Amount = req.Amount
		}
		if req.Label != "" {
			c.Form.Memo = TruncateMemo(req.Label)
		}
		return nil
	case RemoteRequest:
		if c.Fetcher == nil {
			return fmt.Errorf("%w: no fetcher for %s", ErrRemoteRequest, req.URL)
		}
		pr, err := c.Fetcher.FetchRequest(ctx, req.URL)
		if err != nil {
			log.Errorf("Fetching payment request %s: %v", req.URL, err)
			return fmt.Errorf("%w: %v", ErrRemoteRequest, err)
		}
		return c.applyProtocolRequest(pr)
	default:
		return fmt.Errorf("send: unknown request type %d", req.Type)
	}
}

// AcceptWarning applies the request held back by HandleRequest.
func (c *Controller) AcceptWarning(ctx context.Context) error {
	if c.pending == nil {
		return nil
	}
	req := *c.pending
	c.pending = nil
	req.WarningMessage = ""
	return c.HandleRequest(ctx, req)
}

// DiscardWarning drops the request held back by HandleRequest.
func (c *Controller) DiscardWarning() {
	c.pending = nil
}

func (c *Controller) applyProtocolRequest(pr *ProtocolRequest) error {
	c.protoAddr = pr.Address
	switch {
	case pr.CommonName != "" && pr.PKIType != "none":
		c.Form.Address = lockSymbol + " " + pr.CommonName
	case pr.CommonName != "":
		c.Form.Address = pr.CommonName
	default:
		c.Form.Address = pr.Address
	}
	if pr.Amount.IsPositive() {
		c.Form.Amount = decimal.NewNullDecimal(pr.Amount)
	}
	c.Form.Memo = TruncateMemo(pr.Memo)

	amount := pr.Amount
	if !amount.IsPositive() {
		if !c.Form.Amount.Valid {
			return nil
		}
		amount = c.Form.Amount.Decimal
	} else {
		c.AddressEditable = false
	}
	if res := c.Sender.CreateTransaction(pr.Address, amount, "", ""); res.Status != StatusOK {
		return fmt.Errorf("%w: %v", ErrCreateTransaction, res.Status)
	}
	return nil
}

// Prepare validates the form and creates the transaction. The returned
// error describes why the transaction can't be sent. A Confirmation may
// be returned together with ErrInsufficientFunds.
func (c *Controller) Prepare() (*Confirmation, error) {
	c.prepared = nil
	form := c.Form
	if c.protoAddr != "" {
		form.Address = c.protoAddr
	}
	d, err := form.Validate()
	if err != nil {
		return nil, err
	}
	res := c.Sender.CreateTransaction(d.Address, d.Amount, d.Memo, d.Data)
	if !res.Proceed() {
		log.Debugf("Transaction to %s not created: %v", d.Address, res.Status)
		return nil, res.Err()
	}
	fee, _ := c.Sender.Fee(d.Amount)
	c.prepared = &Confirmation{
		Address:  d.Address,
		Amount:   d.Amount,
		Fee:      fee,
		FeeLevel: c.feeLevel,
		Currency: c.Currency,
	}
	return c.prepared, res.Err()
}

// Cancel discards a prepared transaction.
func (c *Controller) Cancel() {
	c.prepared = nil
	c.Sender.Reset()
}

// Send publishes the prepared transaction after verify authorizes it.
func (c *Controller) Send(ctx context.Context, verify PinVerifier) error {
	if c.prepared == nil {
		return ErrNotPrepared
	}
	if err := c.Sender.SendTransaction(ctx, verify); err != nil {
		log.Errorf("Publishing transaction to %s failed: %v", c.prepared.Address, err)
		return err
	}
	log.Infof("Sent %s %s to %s", c.prepared.Amount, c.Currency.DisplayCode(), c.prepared.Address)
	c.prepared = nil
	if c.OnPublishSuccess != nil {
		c.OnPublishSuccess()
	}
	return nil
}
