package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/dogenkigen/account-manager/internal/core/domain"
)

// DefaultFlushEvery is how many rows are buffered between flushes.
const DefaultFlushEvery = 100

var header = []string{"client", "available", "held", "total", "locked"}

// Writer renders accounts as CSV. The header is written with the first row.
type Writer struct {
	csv        *csv.Writer
	flushEvery int
	rows       int
}

func NewWriter(w io.Writer, flushEvery int) *Writer {
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	return &Writer{csv: csv.NewWriter(w), flushEvery: flushEvery}
}

func (w *Writer) Write(acc domain.Account) error {
	if w.rows == 0 {
		if err := w.csv.Write(header); err != nil {
			return err
		}
	}

	err := w.csv.Write([]string{
		strconv.FormatUint(uint64(acc.Client), 10),
		domain.FormatAmount(acc.Available),
		domain.FormatAmount(acc.Held),
		domain.FormatAmount(acc.Total),
		strconv.FormatBool(acc.Locked),
	})
	if err != nil {
		return err
	}

	w.rows++
	if w.rows%w.flushEvery == 0 {
		return w.Flush()
	}
	return nil
}

// WriteAll writes every account and flushes.
func (w *Writer) WriteAll(accounts []domain.Account) error {
	for _, acc := range accounts {
		if err := w.Write(acc); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
