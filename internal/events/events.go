// Package events carries tenant-data-changed notifications between the
// mutation flows and every view that derives figures from them.
package events

import (
	"sync"
	"time"
)

type Kind string

const (
	ProductsChanged Kind = "products_changed"
	SaleRecorded    Kind = "sale_recorded"
	ExpenseRecorded Kind = "expense_recorded"
)

// TenantDataChanged is published after a mutation commits.
type TenantDataChanged struct {
	TenantID uint      `json:"tenant_id"`
	Kind     Kind      `json:"kind"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	Publish(TenantDataChanged)
}

// Bus fans events out to in-process subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(TenantDataChanged)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(TenantDataChanged))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(TenantDataChanged)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers ev synchronously to every subscriber.
func (b *Bus) Publish(ev TenantDataChanged) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.RLock()
	fns := make([]func(TenantDataChanged), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}
