package csvio

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogenkigen/account-manager/internal/core/domain"
)

func readAll(t *testing.T, input string) ([]domain.Event, error) {
	t.Helper()

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

func TestReaderDecodesEveryKind(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,1.0
withdrawal,1,2,2.0
dispute,1,1,
resolve,1,1,
chargeback,1,1,
`
	events, err := readAll(t, input)
	require.NoError(t, err)
	require.Len(t, events, 5)

	want := []domain.Event{
		{Kind: domain.Deposit, Client: 1, Tx: 1, Amount: decimal.New(10, -1)},
		{Kind: domain.Withdrawal, Client: 1, Tx: 2, Amount: decimal.New(20, -1)},
		{Kind: domain.Dispute, Client: 1, Tx: 1},
		{Kind: domain.Resolve, Client: 1, Tx: 1},
		{Kind: domain.Chargeback, Client: 1, Tx: 1},
	}
	for i, ev := range events {
		assert.Equal(t, want[i].Kind, ev.Kind, "row %d", i)
		assert.Equal(t, want[i].Client, ev.Client, "row %d", i)
		assert.Equal(t, want[i].Tx, ev.Tx, "row %d", i)
		assert.True(t, want[i].Amount.Equal(ev.Amount), "row %d: amount %s", i, ev.Amount)
	}
}

func TestReaderTrimsAndAcceptsShortRows(t *testing.T) {
	input := "type, client, tx, amount\n  deposit ,  7 , 3 ,  0.5  \ndispute, 7, 3\n"

	events, err := readAll(t, input)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, domain.Deposit, events[0].Kind)
	assert.Equal(t, uint16(7), events[0].Client)
	assert.Equal(t, uint32(3), events[0].Tx)
	assert.True(t, decimal.RequireFromString("0.5").Equal(events[0].Amount))

	assert.Equal(t, domain.Dispute, events[1].Kind)
	assert.True(t, events[1].Amount.IsZero())
}

func TestReaderColumnsByName(t *testing.T) {
	events, err := readAll(t, "amount,tx,client,type\n4.25,9,2,deposit\n")
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, uint16(2), events[0].Client)
	assert.Equal(t, uint32(9), events[0].Tx)
	assert.True(t, decimal.RequireFromString("4.25").Equal(events[0].Amount))
}

func TestReaderMissingAmountColumn(t *testing.T) {
	events, err := readAll(t, "type,client,tx\ndispute,1,1\n")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Amount.IsZero())
}

func TestReaderRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{name: "unknown type", row: "transfer,1,1,1"},
		{name: "client out of range", row: "deposit,65536,1,1"},
		{name: "negative client", row: "deposit,-1,1,1"},
		{name: "tx out of range", row: "deposit,1,4294967296,1"},
		{name: "bad amount", row: "deposit,1,1,abc"},
		{name: "too precise", row: "deposit,1,1,1.00001"},
		{name: "negative amount", row: "deposit,1,1,-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "type,client,tx,amount\ndeposit,1,1,1\n" + tt.row + "\n"

			events, err := readAll(t, input)
			require.Error(t, err)
			assert.Len(t, events, 1, "rows before the bad one are returned")

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 3, perr.Line)
		})
	}
}

func TestReaderHeaderErrors(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	require.Error(t, err)

	_, err = NewReader(strings.NewReader("type,client,amount\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"tx"`)
}

func TestReaderTopBoundaries(t *testing.T) {
	events, err := readAll(t, "type,client,tx,amount\ndeposit,65535,4294967295,0.0001\n")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint16(65535), events[0].Client)
	assert.Equal(t, uint32(4294967295), events[0].Tx)
}
