package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// LineItem is one distinct product entry in the cart.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Totals is the derived aggregate over all current cart entries.
type Totals struct {
	Price    decimal.Decimal `json:"total_price"`
	Quantity int             `json:"total_quantity"`
}

// ZeroTotals returns the totals of an empty cart.
func ZeroTotals() Totals {
	return Totals{Price: decimal.Zero}
}

// Listener receives the new totals after every cart mutation.
type Listener interface {
	TotalsChanged(totals Totals)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(totals Totals)

func (fn ListenerFunc) TotalsChanged(totals Totals) {
	fn(totals)
}

// Manager owns the only mutation path into a cart. Every mutating operation
// recomputes the totals and notifies listeners exactly once, in mutation
// order. Listeners run synchronously under the manager lock and must not call
// back into the Manager.
type Manager struct {
	mu        sync.Mutex
	items     []LineItem
	totals    Totals
	listeners []Listener
}

// NewManager builds an empty cart manager.
func NewManager() *Manager {
	return &Manager{totals: ZeroTotals()}
}

// Subscribe registers a listener and immediately pushes the current totals,
// so a late subscriber (a header badge, a checkout summary) starts from the
// authoritative value rather than zero.
func (m *Manager) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
	listener.TotalsChanged(m.totals)
}

// Add merges the item into the cart: an entry with the same ID gets its
// quantity incremented by one, otherwise the item is appended with quantity 1.
func (m *Manager) Add(item LineItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i].Quantity++
			m.recomputeAndBroadcast()
			return
		}
	}

	item.Quantity = 1
	m.items = append(m.items, item)
	m.recomputeAndBroadcast()
}

// Decrement lowers the entry's quantity by one, removing the entry entirely
// when it reaches zero. An absent id is a silent no-op and does not broadcast.
func (m *Manager) Decrement(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		m.items[i].Quantity--
		if m.items[i].Quantity == 0 {
			m.items = append(m.items[:i], m.items[i+1:]...)
		}
		m.recomputeAndBroadcast()
		return
	}
}

// Remove deletes the entry with the matching id. An absent id is a silent
// no-op and does not broadcast.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.recomputeAndBroadcast()
			return
		}
	}
}

// Clear empties the cart and broadcasts zeroed totals.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = nil
	m.recomputeAndBroadcast()
}

// Items returns a point-in-time copy of the cart entries.
func (m *Manager) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]LineItem, len(m.items))
	copy(snapshot, m.items)
	return snapshot
}

// Totals returns the last computed totals.
func (m *Manager) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

// Len returns the number of distinct entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Manager) recomputeAndBroadcast() {
	price := decimal.Zero
	quantity := 0
	for _, item := range m.items {
		price = price.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		quantity += item.Quantity
	}
	m.totals = Totals{Price: price, Quantity: quantity}

	for _, listener := range m.listeners {
		listener.TotalsChanged(m.totals)
	}
}
