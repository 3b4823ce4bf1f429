// SPDX-License-Identifier: Unlicense OR MIT

// Command walletui runs a single currency demo wallet showing its balance
// in animated labels above a send form.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/jessevdk/go-flags"
	"github.com/shopspring/decimal"

	"github.com/etzwallet/walletui/label"
	"github.com/etzwallet/walletui/numfmt"
	"github.com/etzwallet/walletui/send"
	"github.com/etzwallet/walletui/walletmaterial"
)

const ownAddress = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

var (
	regularGas = decimal.New(21, -9)
	economyGas = decimal.New(10, -9)
)

type walletUI struct {
	cfg   *config
	th    *walletmaterial.Theme
	store *send.MemStore

	// power shows the balance, fiat its converted value.
	power *label.Amount
	fiat  *label.Amount
	// toggle switches the power label between two and all fraction
	// digits.
	toggle widget.Clickable

	form  *walletmaterial.SendForm
	unsub func()
}

func newWalletUI(cfg *config) *walletUI {
	fiatFmt := numfmt.NewDecimal(cfg.locale, numfmt.Digits{MinInteger: 1, MinFraction: 2, MaxFraction: 2})
	powerFmt := numfmt.NewDecimal(cfg.locale, numfmt.Digits{MinInteger: 1, MaxFraction: 8})

	st := send.NewMemStore(send.WalletState{
		Balances: map[string]decimal.Decimal{cfg.Unit: cfg.balance},
		Fees:     map[string]send.Fees{cfg.Unit: {Regular: regularGas, Economy: economyGas}},
	})
	u := &walletUI{
		cfg:   cfg,
		th:    walletmaterial.NewTheme(),
		store: st,
		power: label.New(label.PowerPolicy, powerFmt, cfg.Unit),
		fiat:  label.New(label.SuffixedPolicy, fiatFmt, cfg.Fiat),
	}
	u.power.Duration = cfg.AnimDuration
	u.fiat.Duration = cfg.AnimDuration

	c := send.NewController(send.Currency{Code: cfg.Unit, Name: cfg.Unit}, newDemoWallet(cfg.Unit, ownAddress, st))
	c.Formatter = powerFmt.Clone()
	c.OnPublishSuccess = func() {
		log.Infof("Balance is now %s %s", st.State().Balances[cfg.Unit], cfg.Unit)
	}
	c.Attach(st)
	u.form = walletmaterial.NewSendForm(c)
	u.form.Verify = func(context.Context) (string, error) { return "0000", nil }

	u.unsub = st.Subscribe(func(prev, next send.WalletState) bool {
		return !prev.Balances[cfg.Unit].Equal(next.Balances[cfg.Unit])
	}, u.balanceChanged)
	u.balanceChanged(st.State())
	return u
}

func (u *walletUI) close() {
	u.unsub()
	u.form.Controller.Detach()
}

func (u *walletUI) balanceChanged(s send.WalletState) {
	bal := s.Balances[u.cfg.Unit]
	animate(u.power, bal, u.power.Unit())
	animate(u.fiat, bal.Mul(u.cfg.rate), u.cfg.Fiat)
}

// animate moves a to v, or jumps there if a's text can't be animated
// from.
func animate(a *label.Amount, v decimal.Decimal, code string) {
	err := a.SetValueAnimated(v, code, nil)
	if errors.Is(err, label.ErrUnparseable) {
		log.Debugf("Setting %s without animation: %v", v, err)
		a.SetValue(v, code)
	}
}

func (u *walletUI) run(w *app.Window) error {
	defer u.close()
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			u.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (u *walletUI) layout(gtx layout.Context) layout.Dimensions {
	if u.toggle.Clicked(gtx) {
		u.toggleMax()
	}
	dims := layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(u.layoutHeader),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return u.form.Layout(gtx, u.th)
			})
		}),
	)
	// Sending from the form may have started a balance animation after
	// the header was drawn.
	if u.power.Animating() || u.fiat.Animating() {
		gtx.Execute(op.InvalidateCmd{})
	}
	return dims
}

// toggleMax switches the power label between the wallet unit and
// label.MaxUnit. A running balance animation keeps heading for its end
// value.
func (u *walletUI) toggleMax() {
	next := label.MaxUnit
	if u.power.Unit() == label.MaxUnit {
		next = u.cfg.Unit
	}
	if u.power.Animating() {
		animate(u.power, u.power.Target(), next)
		return
	}
	u.power.SetValue(u.power.Value(), next)
}

func (u *walletUI) layoutHeader(gtx layout.Context) layout.Dimensions {
	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			defer clip.Rect{Max: gtx.Constraints.Min}.Push(gtx.Ops).Pop()
			paint.Fill(gtx.Ops, u.th.Header)
			return layout.Dimensions{Size: gtx.Constraints.Min}
		},
		func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			return layout.UniformInset(unit.Dp(24)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return u.toggle.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
							s := walletmaterial.AmountLabel(u.th, u.power)
							s.Alignment = text.Middle
							return s.Layout(gtx)
						})
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						s := walletmaterial.AmountLabel(u.th, u.fiat)
						s.Color = u.th.Power.Color
						s.Alignment = text.Middle
						return s.Layout(gtx)
					}),
				)
			})
		},
	)
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := initLogRotator(cfg.LogFile, cfg.MaxLogRolls); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logRotator.Close()
		os.Exit(1)
	}
	log.Infof("Locale %s, balance %s %s at %s %s", cfg.locale, cfg.balance, cfg.Unit, cfg.rate, cfg.Fiat)

	ui := newWalletUI(cfg)
	go func() {
		var w app.Window
		w.Option(app.Title(cfg.Unit+" Wallet"), app.Size(unit.Dp(420), unit.Dp(720)))
		err := ui.run(&w)
		if err != nil {
			log.Errorf("Window closed: %v", err)
		}
		logRotator.Close()
		if err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}
