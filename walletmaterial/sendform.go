// SPDX-License-Identifier: Unlicense OR MIT

package walletmaterial

import (
	"context"
	"fmt"
	"strings"

	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/shopspring/decimal"

	"github.com/etzwallet/walletui/send"
)

// SendForm is the send screen: recipient, amount, optional data and
// memo fields, followed by a confirmation step.
type SendForm struct {
	Controller *send.Controller
	// Verify authorizes a confirmed transaction.
	Verify send.PinVerifier

	address widget.Editor
	amount  widget.Editor
	data    widget.Editor
	memo    widget.Editor
	next    widget.Clickable
	confirm widget.Clickable
	cancel  widget.Clickable
	fee     widget.Enum

	// memoText and memoCaret are the memo editor's last state within
	// send.MaxMemoLength bytes.
	memoText  string
	memoCaret [2]int

	confirmation *send.Confirmation
	err          error
}

// NewSendForm returns a form editing c.Form.
func NewSendForm(c *send.Controller) *SendForm {
	f := &SendForm{Controller: c}
	f.address.SingleLine = true
	f.address.Submit = true
	f.amount.SingleLine = true
	f.amount.Submit = true
	f.amount.Filter = "0123456789."
	f.data.SingleLine = true
	f.data.Submit = true
	f.memo.Submit = true
	f.memo.MaxLen = send.MaxMemoLength
	f.Refresh()
	f.fee.Value = feeKey(c.FeeLevel())
	return f
}

// Refresh copies the controller's form into the editors, for example
// after a payment request was applied.
func (f *SendForm) Refresh() {
	form := f.Controller.Form
	f.address.SetText(form.Address)
	f.address.ReadOnly = !f.Controller.AddressEditable
	if form.Amount.Valid {
		f.amount.SetText(form.Amount.Decimal.String())
	} else {
		f.amount.SetText("")
	}
	f.data.SetText(form.Data)
	f.memo.SetText(form.Memo)
	f.memoText = f.memo.Text()
	f.memoCaret[0], f.memoCaret[1] = f.memo.Selection()
}

// Err returns the error of the last send attempt.
func (f *SendForm) Err() error {
	return f.err
}

// Confirming reports whether the form waits for the user to confirm a
// prepared transaction.
func (f *SendForm) Confirming() bool {
	return f.confirmation != nil
}

func (f *SendForm) sync() {
	form := &f.Controller.Form
	form.Address = f.address.Text()
	form.Amount = parseAmount(f.amount.Text())
	form.Data = f.data.Text()
	form.Memo = send.TruncateMemo(f.memo.Text())
}

func parseAmount(s string) decimal.NullDecimal {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}

func (f *SendForm) update(gtx layout.Context) {
	for _, e := range []*widget.Editor{&f.address, &f.amount, &f.data, &f.memo} {
		for {
			ev, ok := e.Update(gtx)
			if !ok {
				break
			}
			switch ev.(type) {
			case widget.ChangeEvent:
				if e == &f.memo {
					f.limitMemo()
				}
				f.sync()
			case widget.SubmitEvent:
				gtx.Execute(key.FocusCmd{})
			}
		}
	}
	if f.fee.Update(gtx) {
		f.setFeeLevel(f.fee.Value)
	}
	if f.next.Clicked(gtx) {
		gtx.Execute(key.FocusCmd{})
		f.prepare()
	}
	if f.cancel.Clicked(gtx) {
		f.confirmation = nil
		f.Controller.Cancel()
	}
	if f.confirm.Clicked(gtx) {
		f.send(context.Background())
	}
}

// limitMemo undoes an edit that made the memo longer than
// send.MaxMemoLength bytes. Editor.MaxLen only limits runes.
func (f *SendForm) limitMemo() {
	if txt := f.memo.Text(); len(txt) <= send.MaxMemoLength {
		f.memoText = txt
		f.memoCaret[0], f.memoCaret[1] = f.memo.Selection()
		return
	}
	f.memo.SetText(f.memoText)
	f.memo.SetCaret(f.memoCaret[0], f.memoCaret[1])
}

const (
	feeRegular = "regular"
	feeEconomy = "economy"
)

func feeKey(l send.FeeLevel) string {
	if l == send.FeeEconomy {
		return feeEconomy
	}
	return feeRegular
}

func (f *SendForm) setFeeLevel(v string) {
	l := send.FeeRegular
	if v == feeEconomy {
		l = send.FeeEconomy
	}
	f.fee.Value = v
	f.Controller.SetFeeLevel(l)
}

func (f *SendForm) prepare() {
	f.sync()
	conf, err := f.Controller.Prepare()
	f.err = err
	f.confirmation = conf
}

func (f *SendForm) send(ctx context.Context) {
	f.err = f.Controller.Send(ctx, f.Verify)
	if f.err == nil {
		f.confirmation = nil
		f.Controller.Form = send.Form{}
		f.Refresh()
	}
}

// Layout handles input and draws the form, or the confirmation of a
// prepared transaction.
func (f *SendForm) Layout(gtx layout.Context, th *Theme) layout.Dimensions {
	f.update(gtx)
	if f.confirmation != nil {
		return f.layoutConfirmation(gtx, th)
	}
	c := f.Controller
	line := c.BalanceText()
	children := []layout.FlexChild{
		layout.Rigid(material.H6(th.Theme, c.Currency.Title()).Layout),
		layout.Rigid(field(th, &f.address, "Address")),
		layout.Rigid(field(th, &f.amount, "Amount")),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			l := material.Body2(th.Theme, line.Balance)
			l.Color = th.Hint
			if line.Overdraft {
				l.Color = th.Negative
			}
			return l.Layout(gtx)
		}),
	}
	if line.Fee != "" {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			l := material.Body2(th.Theme, line.Fee)
			l.Color = th.Hint
			if line.FeeUnavailable {
				l.Color = th.Negative
			}
			return l.Layout(gtx)
		}))
	}
	if c.CanEditFee() {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{}.Layout(gtx,
					layout.Rigid(material.RadioButton(th.Theme, &f.fee, feeRegular, "Regular").Layout),
					layout.Rigid(material.RadioButton(th.Theme, &f.fee, feeEconomy, "Economy").Layout),
				)
			})
		}))
	}
	if c.Currency.HasDataField() {
		children = append(children, layout.Rigid(field(th, &f.data, "Data")))
	}
	children = append(children,
		layout.Rigid(field(th, &f.memo, "Memo")),
		layout.Rigid(f.layoutErr(th)),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(32)}.Layout(gtx, material.Button(th.Theme, &f.next, "Send").Layout)
		}),
	)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (f *SendForm) layoutConfirmation(gtx layout.Context, th *Theme) layout.Dimensions {
	conf := f.confirmation
	code := conf.Currency.DisplayCode()
	format := f.Controller.Formatter.Format
	rows := []string{
		fmt.Sprintf("To: %s", conf.Address),
		fmt.Sprintf("Amount: %s %s", format(conf.Amount), code),
		fmt.Sprintf("Network Fee: %s %s", format(conf.Fee), code),
		fmt.Sprintf("Total: %s %s", format(conf.Amount.Add(conf.Fee)), code),
	}
	children := []layout.FlexChild{
		layout.Rigid(material.H6(th.Theme, "Confirmation").Layout),
	}
	for _, r := range rows {
		children = append(children, layout.Rigid(material.Body1(th.Theme, r).Layout))
	}
	children = append(children,
		layout.Rigid(f.layoutErr(th)),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Spacing: layout.SpaceBetween}.Layout(gtx,
					layout.Rigid(material.Button(th.Theme, &f.cancel, "Cancel").Layout),
					layout.Rigid(material.Button(th.Theme, &f.confirm, "Confirm").Layout),
				)
			})
		}),
	)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (f *SendForm) layoutErr(th *Theme) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		if f.err == nil {
			return layout.Dimensions{}
		}
		l := material.Body2(th.Theme, f.err.Error())
		l.Color = th.Negative
		return layout.Inset{Top: unit.Dp(8)}.Layout(gtx, l.Layout)
	}
}

func field(th *Theme, e *widget.Editor, hint string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Top: unit.Dp(16)}.Layout(gtx, material.Editor(th.Theme, e, hint).Layout)
	}
}
