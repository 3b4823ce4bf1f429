// SPDX-License-Identifier: Unlicense OR MIT

package send

import (
	"github.com/shopspring/decimal"
)

// WalletState is a snapshot of the state shared by the wallet screens.
type WalletState struct {
	// Balances and Fees are keyed by currency code.
	Balances map[string]decimal.Decimal
	Fees     map[string]Fees
}

// Store publishes WalletState changes.
type Store interface {
	State() WalletState
	// Subscribe calls callback with the new state whenever selector
	// reports a relevant change. The returned function unsubscribes.
	Subscribe(selector func(prev, next WalletState) bool, callback func(WalletState)) (unsubscribe func())
}

// MemStore is an in-memory Store. It is not safe for concurrent use.
type MemStore struct {
	state WalletState
	subs  map[int]subscription
	next  int
}

type subscription struct {
	selector func(prev, next WalletState) bool
	callback func(WalletState)
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns a store holding s.
func NewMemStore(s WalletState) *MemStore {
	return &MemStore{state: s, subs: make(map[int]subscription)}
}

func (m *MemStore) State() WalletState {
	return m.state
}

func (m *MemStore) Subscribe(selector func(prev, next WalletState) bool, callback func(WalletState)) func() {
	id := m.next
	m.next++
	m.subs[id] = subscription{selector: selector, callback: callback}
	return func() { delete(m.subs, id) }
}

// Set replaces the state and notifies matching subscribers.
func (m *MemStore) Set(s WalletState) {
	old := m.state
	m.state = s
	for _, sub := range m.subs {
		if sub.selector(old, s) {
			sub.callback(s)
		}
	}
}

// SetBalance updates the balance of one currency.
func (m *MemStore) SetBalance(code string, balance decimal.Decimal) {
	s := m.state.clone()
	s.Balances[code] = balance
	m.Set(s)
}

// SetFees updates the fee rates of one currency.
func (m *MemStore) SetFees(code string, fees Fees) {
	s := m.state.clone()
	s.Fees[code] = fees
	m.Set(s)
}

func (s WalletState) clone() WalletState {
	c := WalletState{
		Balances: make(map[string]decimal.Decimal, len(s.Balances)),
		Fees:     make(map[string]Fees, len(s.Fees)),
	}
	for k, v := range s.Balances {
		c.Balances[k] = v
	}
	for k, v := range s.Fees {
		c.Fees[k] = v
	}
	return c
}
