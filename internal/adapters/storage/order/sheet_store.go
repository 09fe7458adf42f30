package order

import (
	"context"
	"strconv"

	"dangol/internal/adapters/sheets"
	domain "dangol/internal/domain/order"
)

// Column positions in the order sheet (1-based spreadsheet columns).
const (
	colOrderID = iota + 1
	colPhone
	colRequestedDate
	colQtyUnsweetened
	colQtySweetened
	colQtyBerry
	colQtyGreek
	colCreatedAt
)

// SheetStore implements Store on top of the 주문내역 worksheet.
type SheetStore struct {
	sheet *sheets.Sheet
}

// NewSheetStore creates an order store over the given workbook.
func NewSheetStore(wb *sheets.Workbook) *SheetStore {
	return &SheetStore{sheet: wb.Sheet(sheets.OrderSheet)}
}

// AppendBatch writes all lines in one batch append. The underlying sheet
// saves once for the whole batch, so the caller sees all-or-nothing.
// PRE: every line has a positive total quantity
func (s *SheetStore) AppendBatch(_ context.Context, lines []domain.Line) error {
	rows := make([][]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []any{
			l.OrderID, l.Phone, l.RequestedDate,
			l.Unsweetened, l.Sweetened, l.Berry, l.Greek,
			l.CreatedAt,
		})
	}
	return s.sheet.AppendRows(rows)
}

// All reads the full order table.
func (s *SheetStore) All(_ context.Context) ([]domain.Line, error) {
	rows, err := s.sheet.Rows()
	if err != nil {
		return nil, err
	}
	lines := make([]domain.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fromRow(row))
	}
	return lines, nil
}

// fromRow maps a sheet row to the domain type. Quantity cells that fail to
// parse (historical hand-edits) read as zero rather than failing the scan.
func fromRow(row []string) domain.Line {
	get := func(col int) string {
		if col-1 < len(row) {
			return row[col-1]
		}
		return ""
	}
	num := func(col int) int {
		n, _ := strconv.Atoi(get(col))
		return n
	}
	return domain.Line{
		OrderID:       get(colOrderID),
		Phone:         get(colPhone),
		RequestedDate: get(colRequestedDate),
		Quantities: domain.Quantities{
			Unsweetened: num(colQtyUnsweetened),
			Sweetened:   num(colQtySweetened),
			Berry:       num(colQtyBerry),
			Greek:       num(colQtyGreek),
		},
		CreatedAt: get(colCreatedAt),
	}
}
