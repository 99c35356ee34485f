package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the type of a ledger event.
type Kind string

const (
	Deposit    Kind = "deposit"
	Withdrawal Kind = "withdrawal"
	Dispute    Kind = "dispute"
	Resolve    Kind = "resolve"
	Chargeback Kind = "chargeback"
)

// Kinds returns every event kind the engine understands.
func Kinds() []Kind {
	return []Kind{Deposit, Withdrawal, Dispute, Resolve, Chargeback}
}

// ParseKind maps a wire name (case-insensitive) onto a Kind.
func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, k := range Kinds() {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type %q", raw)
}

// Event is one row of the ledger log.
// Amount is zero for dispute, resolve and chargeback.
type Event struct {
	Kind   Kind
	Client uint16
	Tx     uint32
	Amount decimal.Decimal
}

// Account is the balance sheet of a single client.
type Account struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// NewAccount returns an empty, unlocked account.
func NewAccount(client uint16) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
	}
}

// Balanced reports whether Total == Available + Held.
func (a Account) Balanced() bool {
	return a.Total.Equal(a.Available.Add(a.Held))
}

// TransactionRecord is the stored amount of a deposit or withdrawal and
// whether it is currently under dispute.
type TransactionRecord struct {
	Tx       uint32
	Amount   decimal.Decimal
	Disputed bool
}
