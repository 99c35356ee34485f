package engine

import (
	"sync"

	"github.com/dogenkigen/account-manager/internal/core/domain"
)

// Ledger is a Store that can also list its accounts.
type Ledger interface {
	Store
	Accounts() []domain.Account
}

// Serialized puts one mutex in front of an Engine and its store, so events
// submitted from many goroutines still form a single ordered stream.
type Serialized struct {
	mu     sync.Mutex
	store  Ledger
	engine *Engine
}

func NewSerialized(store Ledger) *Serialized {
	return &Serialized{store: store, engine: New(store)}
}

func (s *Serialized) Process(ev domain.Event) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Process(ev)
}

func (s *Serialized) Accounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Accounts()
}

// Account returns a copy of one client's account.
func (s *Serialized) Account(client uint16) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.store.Account(client)
	if !ok {
		return domain.Account{}, false
	}
	return *acc, true
}

func (s *Serialized) Stats() map[Outcome]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Stats()
}
