package storage

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dogenkigen/account-manager/internal/core/domain"
)

// LedgerStore owns every account and transaction record of a replay.
// It is a plain keyed store; the engine does all validation.
type LedgerStore struct {
	accounts     map[uint16]*domain.Account
	transactions map[uint32]*domain.TransactionRecord
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accounts:     make(map[uint16]*domain.Account),
		transactions: make(map[uint32]*domain.TransactionRecord),
	}
}

// GetOrCreateAccount returns the client's account, creating an empty one on
// first sight.
func (s *LedgerStore) GetOrCreateAccount(client uint16) *domain.Account {
	acc, ok := s.accounts[client]
	if !ok {
		acc = domain.NewAccount(client)
		s.accounts[client] = acc
	}
	return acc
}

func (s *LedgerStore) Account(client uint16) (*domain.Account, bool) {
	acc, ok := s.accounts[client]
	return acc, ok
}

func (s *LedgerStore) Record(tx uint32) (*domain.TransactionRecord, bool) {
	rec, ok := s.transactions[tx]
	return rec, ok
}

// PutRecord stores an undisputed record, replacing any previous one with the
// same id.
func (s *LedgerStore) PutRecord(tx uint32, amount decimal.Decimal) {
	s.transactions[tx] = &domain.TransactionRecord{Tx: tx, Amount: amount}
}

func (s *LedgerStore) RemoveRecord(tx uint32) {
	delete(s.transactions, tx)
}

// Accounts returns a copy of every account ordered by client id.
func (s *LedgerStore) Accounts() []domain.Account {
	out := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, *acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}
