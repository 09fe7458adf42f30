package member

import (
	"context"
	"fmt"

	"dangol/internal/adapters/sheets"
	domain "dangol/internal/domain/member"
)

// Column positions in the member sheet (1-based spreadsheet columns).
const (
	colPhone = iota + 1
	colName
	colRegion
	colAddress
	colLastOrderDate
	colJoinedDate
)

// SheetStore implements Store on top of the 회원관리 worksheet.
type SheetStore struct {
	sheet *sheets.Sheet
}

// NewSheetStore creates a member store over the given workbook.
func NewSheetStore(wb *sheets.Workbook) *SheetStore {
	return &SheetStore{sheet: wb.Sheet(sheets.MemberSheet)}
}

// GetByPhone retrieves the member whose key cell equals phone.
// PRE: phone is in canonical form
// POST: returns the member, or an error wrapping sheets.ErrNotFound
func (s *SheetStore) GetByPhone(_ context.Context, phone string) (domain.Member, error) {
	row, err := s.sheet.FindRow(colPhone, phone)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %s: %w", phone, err)
	}
	rows, err := s.sheet.Rows()
	if err != nil {
		return domain.Member{}, err
	}
	return fromRow(rows[row-sheets.HeaderRow-1]), nil
}

// Append adds a new member row.
// PRE: m has been validated
func (s *SheetStore) Append(_ context.Context, m domain.Member) error {
	return s.sheet.AppendRow([]any{
		m.Phone, m.Name, m.Region, m.Address, m.LastOrderDate, m.JoinedDate,
	})
}

// Update overwrites the mutable cells of the row keyed by m.Phone in one
// save. The phone key and joined_date cells are left untouched.
// POST: name/region/address/last_order_date reflect m, or none do
func (s *SheetStore) Update(_ context.Context, m domain.Member) error {
	row, err := s.sheet.FindRow(colPhone, m.Phone)
	if err != nil {
		return fmt.Errorf("member %s: %w", m.Phone, err)
	}
	return s.sheet.UpdateCells(row, []sheets.CellUpdate{
		{Col: colName, Value: m.Name},
		{Col: colRegion, Value: m.Region},
		{Col: colAddress, Value: m.Address},
		{Col: colLastOrderDate, Value: m.LastOrderDate},
	})
}

// All reads the full member table.
func (s *SheetStore) All(_ context.Context) ([]domain.Member, error) {
	rows, err := s.sheet.Rows()
	if err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, fromRow(row))
	}
	return members, nil
}

// fromRow maps a sheet row to the domain type. Short rows (trailing blank
// cells trimmed by the reader) yield empty fields.
func fromRow(row []string) domain.Member {
	get := func(col int) string {
		if col-1 < len(row) {
			return row[col-1]
		}
		return ""
	}
	return domain.Member{
		Phone:         get(colPhone),
		Name:          get(colName),
		Region:        get(colRegion),
		Address:       get(colAddress),
		LastOrderDate: get(colLastOrderDate),
		JoinedDate:    get(colJoinedDate),
	}
}
