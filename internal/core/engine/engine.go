package engine

import (
	"github.com/shopspring/decimal"

	"github.com/dogenkigen/account-manager/internal/core/domain"
)

// Store is the ledger state the engine reads and mutates.
type Store interface {
	GetOrCreateAccount(client uint16) *domain.Account
	Account(client uint16) (*domain.Account, bool)
	Record(tx uint32) (*domain.TransactionRecord, bool)
	PutRecord(tx uint32, amount decimal.Decimal)
	RemoveRecord(tx uint32)
}

// Outcome says whether an event was applied, and if not, why it was dropped.
type Outcome string

const (
	Applied                   Outcome = "applied"
	DroppedAccountLocked      Outcome = "account_locked"
	DroppedInsufficientFunds  Outcome = "insufficient_funds"
	DroppedUnknownTransaction Outcome = "unknown_transaction"
	DroppedAlreadyDisputed    Outcome = "already_disputed"
	DroppedNotDisputed        Outcome = "not_disputed"
	DroppedInsufficientHeld   Outcome = "insufficient_held"
	DroppedUnknownKind        Outcome = "unknown_kind"
)

// Engine applies ledger events one at a time, in arrival order.
//
// Business-rule violations are never errors: the event is dropped, the
// state is left untouched, and the drop is counted under its reason.
// Engine is not safe for concurrent use.
type Engine struct {
	store Store
	stats map[Outcome]int
}

func New(store Store) *Engine {
	return &Engine{
		store: store,
		stats: make(map[Outcome]int),
	}
}

// Process applies a single event.
func (e *Engine) Process(ev domain.Event) Outcome {
	outcome := e.dispatch(ev)
	e.stats[outcome]++
	return outcome
}

// Stats returns how many events ended in each outcome so far.
func (e *Engine) Stats() map[Outcome]int {
	out := make(map[Outcome]int, len(e.stats))
	for k, v := range e.stats {
		out[k] = v
	}
	return out
}

func (e *Engine) dispatch(ev domain.Event) Outcome {
	if acc, ok := e.store.Account(ev.Client); ok && acc.Locked {
		return DroppedAccountLocked
	}

	switch ev.Kind {
	case domain.Deposit:
		return e.deposit(ev)
	case domain.Withdrawal:
		return e.withdraw(ev)
	case domain.Dispute:
		return e.dispute(ev)
	case domain.Resolve:
		return e.resolve(ev)
	case domain.Chargeback:
		return e.chargeback(ev)
	default:
		return DroppedUnknownKind
	}
}

func (e *Engine) deposit(ev domain.Event) Outcome {
	acc := e.store.GetOrCreateAccount(ev.Client)
	acc.Available = acc.Available.Add(ev.Amount)
	acc.Total = acc.Total.Add(ev.Amount)
	e.store.PutRecord(ev.Tx, ev.Amount)
	return Applied
}

func (e *Engine) withdraw(ev domain.Event) Outcome {
	acc := e.store.GetOrCreateAccount(ev.Client)
	if acc.Available.LessThan(ev.Amount) {
		return DroppedInsufficientFunds
	}
	acc.Available = acc.Available.Sub(ev.Amount)
	acc.Total = acc.Total.Sub(ev.Amount)
	e.store.PutRecord(ev.Tx, ev.Amount)
	return Applied
}

// The record is looked up by tx id alone; the event's client is trusted.
func (e *Engine) dispute(ev domain.Event) Outcome {
	acc := e.store.GetOrCreateAccount(ev.Client)
	rec, ok := e.store.Record(ev.Tx)
	switch {
	case !ok:
		return DroppedUnknownTransaction
	case rec.Disputed:
		return DroppedAlreadyDisputed
	case acc.Available.LessThan(rec.Amount):
		return DroppedInsufficientFunds
	}

	rec.Disputed = true
	acc.Available = acc.Available.Sub(rec.Amount)
	acc.Held = acc.Held.Add(rec.Amount)
	return Applied
}

func (e *Engine) resolve(ev domain.Event) Outcome {
	acc := e.store.GetOrCreateAccount(ev.Client)
	rec, outcome := e.disputedRecord(acc, ev.Tx)
	if outcome != Applied {
		return outcome
	}

	rec.Disputed = false
	acc.Available = acc.Available.Add(rec.Amount)
	acc.Held = acc.Held.Sub(rec.Amount)
	e.store.RemoveRecord(ev.Tx)
	return Applied
}

func (e *Engine) chargeback(ev domain.Event) Outcome {
	acc := e.store.GetOrCreateAccount(ev.Client)
	rec, outcome := e.disputedRecord(acc, ev.Tx)
	if outcome != Applied {
		return outcome
	}

	rec.Disputed = false
	acc.Held = acc.Held.Sub(rec.Amount)
	acc.Total = acc.Total.Sub(rec.Amount)
	acc.Locked = true
	e.store.RemoveRecord(ev.Tx)
	return Applied
}

// disputedRecord checks the shared preconditions of resolve and chargeback.
func (e *Engine) disputedRecord(acc *domain.Account, tx uint32) (*domain.TransactionRecord, Outcome) {
	rec, ok := e.store.Record(tx)
	switch {
	case !ok:
		return nil, DroppedUnknownTransaction
	case !rec.Disputed:
		return nil, DroppedNotDisputed
	case acc.Held.LessThan(rec.Amount):
		return nil, DroppedInsufficientHeld
	}
	return rec, Applied
}
