// Package importer restores records from a Fluxo CSV export, including
// exports that were opened and re-saved in a spreadsheet.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/fluxo/internal/encoding"
	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/period"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

const (
	colDayKey   = "dayKey"
	colType     = "type"
	colCategory = "category"
	colAmount   = "amountARS"
	colNote     = "note"
)

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrMissingColumn = errors.New("missing column")
)

// RowError points at the line of the input that could not be imported.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// Parser reads the export layout. Columns are looked up by name, so extra
// or reordered columns are fine. Comma and semicolon separators are both
// accepted.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.ImportParams, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	comma, err := sniffComma(br)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}

	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var params []transaction.ImportParams

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		if blank(row) {
			continue
		}

		line, _ := reader.FieldPos(0)

		param, err := parseRow(cols, row)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}

		params = append(params, param)
	}

	return params, nil
}

// sniffComma picks the separator from the header line.
func sniffComma(br *bufio.Reader) (rune, error) {
	head, err := br.Peek(br.Size())
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, fmt.Errorf("peek: %w", err)
	}

	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}

	if bytes.Count(head, []byte{';'}) > bytes.Count(head, []byte{','}) {
		return ';', nil
	}

	return ',', nil
}

func indexColumns(header []string) (colIndex, error) {
	cols := make(colIndex, len(header))

	for i, cell := range header {
		if name := strings.TrimSpace(cell); name != "" {
			cols[name] = i
		}
	}

	for _, name := range []string{colDayKey, colType, colAmount} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	return cols, nil
}

func parseRow(cols colIndex, row []string) (transaction.ImportParams, error) {
	dayKey := cell(row, cols, colDayKey)
	if !period.ValidDayKey(dayKey) {
		return transaction.ImportParams{}, transaction.ErrInvalidDayKey
	}

	typ := transaction.Type(strings.ToLower(cell(row, cols, colType)))
	if !typ.Valid() {
		return transaction.ImportParams{}, transaction.ErrInvalidType
	}

	amount, err := money.ParsePositiveCents(normalizeAmount(cell(row, cols, colAmount)))
	if err != nil {
		return transaction.ImportParams{}, err
	}

	return transaction.ImportParams{
		CreateParams: transaction.CreateParams{
			Type:     typ,
			Amount:   amount,
			Category: cell(row, cols, colCategory),
			Note:     cell(row, cols, colNote),
		},
		DayKey: dayKey,
	}, nil
}

// normalizeAmount drops thousands separators a spreadsheet may add, as in
// "1.250,50" or "1,250.50".
func normalizeAmount(s string) string {
	dot, comma := strings.LastIndexByte(s, '.'), strings.LastIndexByte(s, ',')

	switch {
	case dot >= 0 && comma > dot:
		return strings.ReplaceAll(s, ".", "")
	case comma >= 0 && dot > comma:
		return strings.ReplaceAll(s, ",", "")
	}

	return s
}

// cell safely gets a trimmed cell value; absent columns read as "".
func cell(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
