// SPDX-License-Identifier: Unlicense OR MIT

package send

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type testSender struct {
	result  Result
	fee     decimal.Decimal
	hasFee  bool
	sendErr error

	created []Draft
	fees    []Fees
	levels  []FeeLevel
	sent    int
	resets  int
}

func (s *testSender) CreateTransaction(address string, amount decimal.Decimal, comment, data string) Result {
	s.created = append(s.created, Draft{Address: address, Amount: amount, Memo: comment, Data: data})
	return s.result
}

func (s *testSender) Fee(decimal.Decimal) (decimal.Decimal, bool) {
	return s.fee, s.hasFee
}

func (s *testSender) UpdateFeeRates(fees Fees, level FeeLevel) {
	s.fees = append(s.fees, fees)
	s.levels = append(s.levels, level)
}

func (s *testSender) SendTransaction(ctx context.Context, verify PinVerifier) error {
	if _, err := verify(ctx); err != nil {
		return err
	}
	s.sent++
	return s.sendErr
}

func (s *testSender) Reset() { s.resets++ }

type testFetcher struct {
	req *ProtocolRequest
	err error
}

func (f testFetcher) FetchRequest(context.Context, string) (*ProtocolRequest, error) {
	return f.req, f.err
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

var etz = Currency{Code: "ETZ", Name: "EtherZero"}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name string
		form Form
		err  error
		data string
	}{
		{"no address", Form{Amount: amount("1")}, ErrNoAddress, ""},
		{"blank address", Form{Address: "  ", Amount: amount("1")}, ErrNoAddress, ""},
		{"no amount", Form{Address: "0xabc"}, ErrNoAmount, ""},
		{"bad data", Form{Address: "0xabc", Amount: amount("1"), Data: "zz zz"}, ErrInvalidData, ""},
		{"long memo", Form{Address: "0xabc", Amount: amount("1"), Memo: strings.Repeat("m", MaxMemoLength+1)}, ErrMemoTooLong, ""},
		{"empty data", Form{Address: "0xabc", Amount: amount("1")}, nil, "0x"},
		{"bare data", Form{Address: "0xabc", Amount: amount("1"), Data: "DEADbeef"}, nil, "0xdeadbeef"},
		{"prefixed data", Form{Address: "0xabc", Amount: amount("1"), Data: "0XAB"}, nil, "0xab"},
	}
	for _, tc := range tests {
		d, err := tc.form.Validate()
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: got error %v, want %v", tc.name, err, tc.err)
			continue
		}
		if err == nil && d.Data != tc.data {
			t.Errorf("%s: data %q, want %q", tc.name, d.Data, tc.data)
		}
	}
}

func TestTruncateMemo(t *testing.T) {
	s := strings.Repeat("a", MaxMemoLength-1) + "€"
	got := TruncateMemo(s)
	if got != strings.Repeat("a", MaxMemoLength-1) {
		t.Errorf("TruncateMemo split a rune: %d bytes", len(got))
	}
	if TruncateMemo("short") != "short" {
		t.Error("TruncateMemo changed a short memo")
	}
}

func TestCurrency(t *testing.T) {
	if !etz.HasDataField() {
		t.Error("ETZ has no data field")
	}
	eth := Currency{Code: "ETH"}
	if eth.HasDataField() {
		t.Error("ETH has a data field")
	}
	if got := eth.Title(); got != "Send ETZ" {
		t.Errorf("ETH title %q", got)
	}
}

func TestResultErr(t *testing.T) {
	tests := []struct {
		status  Status
		err     error
		proceed bool
	}{
		{StatusOK, nil, true},
		{StatusNoExchangeRate, nil, true},
		{StatusInsufficientFunds, ErrInsufficientFunds, true},
		{StatusNoFees, ErrNoFees, false},
		{StatusInvalidAddress, ErrInvalidAddress, false},
		{StatusOwnAddress, ErrOwnAddress, false},
		{StatusOutputTooSmall, ErrOutputTooSmall, false},
		{StatusFailed, ErrCreateTransaction, false},
		{StatusInsufficientGas, ErrInsufficientGas, false},
	}
	for _, tc := range tests {
		r := Result{Status: tc.status, MinOutput: dec("0.0001")}
		if err := r.Err(); !errors.Is(err, tc.err) || (tc.err == nil) != (err == nil) {
			t.Errorf("%v: Err() = %v, want %v", tc.status, err, tc.err)
		}
		if r.Proceed() != tc.proceed {
			t.Errorf("%v: Proceed() = %v", tc.status, r.Proceed())
		}
	}
	if err := (Result{Status: StatusOutputTooSmall, MinOutput: dec("0.5")}).Err(); !strings.Contains(err.Error(), "0.5") {
		t.Errorf("minimum output missing from %q", err)
	}
}

func TestPrepareAndSend(t *testing.T) {
	s := &testSender{fee: dec("0.01"), hasFee: true}
	c := NewController(etz, s)
	published := 0
	c.OnPublishSuccess = func() { published++ }
	if err := c.Send(context.Background(), nil); !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("Send before Prepare: %v", err)
	}
	c.Form = Form{Address: "0xabc", Amount: amount("2"), Data: "ff", Memo: "rent"}
	conf, err := c.Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if !conf.Amount.Equal(dec("2")) || !conf.Fee.Equal(dec("0.01")) || conf.Address != "0xabc" {
		t.Errorf("confirmation %+v", conf)
	}
	if len(s.created) != 1 || s.created[0].Data != "0xff" || s.created[0].Memo != "rent" {
		t.Errorf("created %+v", s.created)
	}
	verify := func(context.Context) (string, error) { return "1234", nil }
	if err := c.Send(context.Background(), verify); err != nil {
		t.Fatal(err)
	}
	if s.sent != 1 || published != 1 {
		t.Errorf("sent %d, published %d", s.sent, published)
	}
	if err := c.Send(context.Background(), verify); !errors.Is(err, ErrNotPrepared) {
		t.Errorf("second Send: %v", err)
	}
}

func TestPrepareFailures(t *testing.T) {
	s := &testSender{result: Result{Status: StatusOwnAddress}}
	c := NewController(etz, s)
	c.Form = Form{Address: "0xabc", Amount: amount("2")}
	if conf, err := c.Prepare(); !errors.Is(err, ErrOwnAddress) || conf != nil {
		t.Errorf("Prepare = %v, %v", conf, err)
	}

	s.result = Result{Status: StatusInsufficientFunds}
	conf, err := c.Prepare()
	if !errors.Is(err, ErrInsufficientFunds) || conf == nil {
		t.Errorf("insufficient funds: Prepare = %v, %v", conf, err)
	}
	c.Cancel()
	if s.resets != 1 {
		t.Error("Cancel did not reset the sender")
	}

	c.Form = Form{Address: "0xabc", Amount: amount("2")}
	s.result = Result{}
	if _, err := c.Prepare(); err != nil {
		t.Fatal(err)
	}
	pinErr := errors.New("cancelled")
	err = c.Send(context.Background(), func(context.Context) (string, error) { return "", pinErr })
	if !errors.Is(err, pinErr) {
		t.Errorf("Send = %v, want %v", err, pinErr)
	}
}

func TestHandleLocalRequest(t *testing.T) {
	c := NewController(etz, &testSender{})
	err := c.HandleRequest(context.Background(), PaymentRequest{
		DisplayAddress: "0xfeed",
		Amount:         amount("1.5"),
		Label:          "coffee",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Form.Address != "0xfeed" || !c.Form.Amount.Decimal.Equal(dec("1.5")) || c.Form.Memo != "coffee" {
		t.Errorf("form %+v", c.Form)
	}
}

func TestHandleRequestWarning(t *testing.T) {
	c := NewController(etz, &testSender{})
	req := PaymentRequest{DisplayAddress: "0xfeed", WarningMessage: "address used before"}
	if err := c.HandleRequest(context.Background(), req); !errors.Is(err, ErrRequestWarning) {
		t.Fatalf("got %v, want ErrRequestWarning", err)
	}
	if c.Form.Address != "" {
		t.Fatal("request applied before the warning was accepted")
	}
	if err := c.AcceptWarning(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Form.Address != "0xfeed" {
		t.Errorf("address %q after accepting warning", c.Form.Address)
	}

	c = NewController(etz, &testSender{})
	_ = c.HandleRequest(context.Background(), req)
	c.DiscardWarning()
	if err := c.AcceptWarning(context.Background()); err != nil || c.Form.Address != "" {
		t.Errorf("discarded request applied: %v %q", err, c.Form.Address)
	}
}

func TestHandleRemoteRequest(t *testing.T) {
	s := &testSender{}
	c := NewController(etz, s)
	req := PaymentRequest{Type: RemoteRequest, URL: "https://pay.example/r/1"}
	if err := c.HandleRequest(context.Background(), req); !errors.Is(err, ErrRemoteRequest) {
		t.Errorf("no fetcher: %v", err)
	}

	c.Fetcher = testFetcher{err: errors.New("timeout")}
	if err := c.HandleRequest(context.Background(), req); !errors.Is(err, ErrRemoteRequest) {
		t.Errorf("fetch failure: %v", err)
	}

	c.Fetcher = testFetcher{req: &ProtocolRequest{
		Address:    "0xmerchant",
		Amount:     dec("3"),
		Memo:       "order 7",
		CommonName: "Shop",
		PKIType:    "x509+sha256",
	}}
	if err := c.HandleRequest(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if c.Form.Address != lockSymbol+" Shop" {
		t.Errorf("address %q", c.Form.Address)
	}
	if c.AddressEditable {
		t.Error("address editable after a request with an amount")
	}
	if len(s.created) != 1 || s.created[0].Address != "0xmerchant" {
		t.Errorf("created %+v", s.created)
	}
	if _, err := c.Prepare(); err != nil {
		t.Fatal(err)
	}
	if got := s.created[1].Address; got != "0xmerchant" {
		t.Errorf("prepared transaction to %q, want the request's address", got)
	}

	s.result = Result{Status: StatusFailed}
	if err := c.HandleRequest(context.Background(), req); !errors.Is(err, ErrCreateTransaction) {
		t.Errorf("create failure: %v", err)
	}
}

func TestStoreSubscription(t *testing.T) {
	s := &testSender{}
	st := NewMemStore(WalletState{
		Balances: map[string]decimal.Decimal{"ETZ": dec("10")},
		Fees:     map[string]Fees{},
	})
	c := NewController(etz, s)
	c.Attach(st)
	if !c.Balance().Equal(dec("10")) {
		t.Errorf("initial balance %s", c.Balance())
	}
	st.SetBalance("ETZ", dec("12.5"))
	if !c.Balance().Equal(dec("12.5")) {
		t.Errorf("balance %s after update", c.Balance())
	}
	st.SetBalance("BTC", dec("99"))
	if !c.Balance().Equal(dec("12.5")) {
		t.Errorf("balance changed by another currency: %s", c.Balance())
	}
	st.SetFees("ETZ", Fees{Regular: dec("2"), Economy: dec("1")})
	if len(s.fees) != 1 || !s.fees[0].Regular.Equal(dec("2")) {
		t.Errorf("fee updates %+v", s.fees)
	}
	if !c.CanEditFee() {
		t.Error("fee not editable with distinct rates")
	}
	c.SetFeeLevel(FeeEconomy)
	if got := s.levels[len(s.levels)-1]; got != FeeEconomy {
		t.Errorf("fee level %v", got)
	}
	c.Detach()
	st.SetBalance("ETZ", dec("1"))
	if !c.Balance().Equal(dec("12.5")) {
		t.Error("balance updated after Detach")
	}
}

func TestBalanceText(t *testing.T) {
	s := &testSender{fee: dec("0.5"), hasFee: true}
	c := NewController(etz, s)
	st := NewMemStore(WalletState{Balances: map[string]decimal.Decimal{"ETZ": dec("3")}})
	c.Attach(st)
	line := c.BalanceText()
	if line.Balance != "Balance: 3.00 ETZ" || line.Fee != "" {
		t.Errorf("no amount: %+v", line)
	}
	c.Form.Amount = amount("4")
	line = c.BalanceText()
	if line.Fee != "Network Fee: 0.50 ETZ" || !line.Overdraft {
		t.Errorf("overdraft: %+v", line)
	}
	c.Form.Amount = amount("1")
	if line = c.BalanceText(); line.Overdraft {
		t.Errorf("within balance: %+v", line)
	}
	s.hasFee = false
	if line = c.BalanceText(); !line.FeeUnavailable {
		t.Errorf("missing fee: %+v", line)
	}
}

func TestAttachSeedsFees(t *testing.T) {
	s := &testSender{}
	st := NewMemStore(WalletState{
		Balances: map[string]decimal.Decimal{"ETZ": dec("10")},
		Fees:     map[string]Fees{"ETZ": {Regular: dec("2"), Economy: dec("1")}},
	})
	c := NewController(etz, s)
	c.Attach(st)
	defer c.Detach()
	if !c.CanEditFee() {
		t.Fatal("fee not editable right after Attach")
	}
	if len(s.fees) != 1 || !s.fees[0].Regular.Equal(dec("2")) {
		t.Fatalf("fee updates %+v", s.fees)
	}
	c.SetFeeLevel(FeeEconomy)
	last := s.fees[len(s.fees)-1]
	if !last.Regular.Equal(dec("2")) || !last.Economy.Equal(dec("1")) {
		t.Errorf("sender got fees %+v", last)
	}
	if got := s.levels[len(s.levels)-1]; got != FeeEconomy {
		t.Errorf("fee level %v", got)
	}
}
