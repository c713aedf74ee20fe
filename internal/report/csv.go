package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"dayKey", "type", "category", "amountARS", "note"}

// CSVFilename returns the download name of a month export.
func CSVFilename(month string) string {
	return fmt.Sprintf("fluxo-%s.csv", month)
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// CSVRow renders one record as export fields.
func CSVRow(tx *transaction.Transaction) []string {
	return []string{
		tx.DayKey,
		string(tx.Type),
		tx.Category,
		money.Major(tx.Amount),
		strings.TrimSpace(newlines.Replace(tx.Note)),
	}
}

// WriteCSV writes the header and one row per record in the given order.
// Every field is quoted; encoding/csv only quotes when needed, so the
// quoting is done here.
func WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	bw := bufio.NewWriter(w)

	if err := writeRow(bw, CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, tx := range txs {
		if err := writeRow(bw, CSVRow(tx)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}

		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}

	return w.WriteByte('\n')
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
