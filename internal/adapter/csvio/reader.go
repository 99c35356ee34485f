package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dogenkigen/account-manager/internal/core/domain"
)

// ParseError reports a malformed input row. It is fatal for the run.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var requiredColumns = []string{"type", "client", "tx"}

// Reader decodes ledger events from CSV with a header row.
// Fields are trimmed and rows may leave out the trailing amount column.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
}

// NewReader consumes the header row and checks the required columns exist.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Line: 1, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("missing column %q", name)}
		}
	}

	return &Reader{csv: cr, columns: columns}, nil
}

// Next returns the next event, or io.EOF once the input is exhausted.
func (r *Reader) Next() (domain.Event, error) {
	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return domain.Event{}, io.EOF
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return domain.Event{}, &ParseError{Line: perr.Line, Err: perr.Err}
		}
		return domain.Event{}, err
	}

	line, _ := r.csv.FieldPos(0)
	ev, err := r.decode(record)
	if err != nil {
		return domain.Event{}, &ParseError{Line: line, Err: err}
	}
	return ev, nil
}

func (r *Reader) field(record []string, name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (r *Reader) decode(record []string) (domain.Event, error) {
	kind, err := domain.ParseKind(r.field(record, "type"))
	if err != nil {
		return domain.Event{}, err
	}

	client, err := strconv.ParseUint(r.field(record, "client"), 10, 16)
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid client: %w", err)
	}

	tx, err := strconv.ParseUint(r.field(record, "tx"), 10, 32)
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid tx: %w", err)
	}

	amount, err := domain.ParseAmount(r.field(record, "amount"))
	if err != nil {
		return domain.Event{}, err
	}

	return domain.Event{
		Kind:   kind,
		Client: uint16(client),
		Tx:     uint32(tx),
		Amount: amount,
	}, nil
}
