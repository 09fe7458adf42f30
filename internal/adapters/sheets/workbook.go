// Package sheets is the client adapter for the shared order workbook. The
// business runs its whole back office out of one spreadsheet with a member
// sheet and an order sheet; this package exposes the row primitives the
// services consume: find-row-by-cell-value, update-cell, append-row,
// batch append, and full-table read.
package sheets

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Worksheet names inside the order workbook.
const (
	MemberSheet = "회원관리"
	OrderSheet  = "주문내역"
)

// HeaderRow is the spreadsheet row holding column titles; data starts on
// the next row.
const HeaderRow = 1

// ErrNotFound reports that a lookup matched no row. It is a distinct
// result from an operation failure: callers that want find-or-append
// semantics must check for this sentinel and treat everything else as a
// genuine store error.
var ErrNotFound = errors.New("sheets: row not found")

var memberHeader = []any{"phone", "name", "region", "address", "last_order_date", "joined_date"}
var orderHeader = []any{"order_id", "phone", "requested_date", "qty_unsweetened", "qty_sweetened", "qty_berry", "qty_greek", "created_at"}

// Workbook wraps the excelize file behind a mutex. The spreadsheet has no
// row-level locking of its own; the mutex serializes this process's
// writers the same way the remote store serializes individual cell writes.
type Workbook struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// Open opens the workbook at path, creating it with both named sheets and
// their header rows when it does not exist yet.
// POST: returned workbook has MemberSheet and OrderSheet present
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := createWorkbook(path); err != nil {
			return nil, err
		}
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{file: f, path: path}, nil
}

func createWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MemberSheet); err != nil {
		return fmt.Errorf("create member sheet: %w", err)
	}
	if _, err := f.NewSheet(OrderSheet); err != nil {
		return fmt.Errorf("create order sheet: %w", err)
	}
	if err := f.SetSheetRow(MemberSheet, "A1", &memberHeader); err != nil {
		return fmt.Errorf("write member header: %w", err)
	}
	if err := f.SetSheetRow(OrderSheet, "A1", &orderHeader); err != nil {
		return fmt.Errorf("write order header: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save new workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying file handle.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// Sheet returns a handle for the named worksheet. The name is not checked
// here; operations on a missing sheet fail with the library's error.
func (w *Workbook) Sheet(name string) *Sheet {
	return &Sheet{wb: w, name: name}
}

// Sheet is a per-worksheet view over the workbook primitives. Row and
// column indices are 1-based, matching spreadsheet addressing.
type Sheet struct {
	wb   *Workbook
	name string
}

// FindRow scans the given column (1-based) for an exact textual match and
// returns the 1-based row index. The header row is skipped.
// POST: returns ErrNotFound when no data row matches; other errors mean
// the read itself failed
func (s *Sheet) FindRow(col int, value string) (int, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	rows, err := s.wb.file.GetRows(s.name)
	if err != nil {
		return 0, fmt.Errorf("read sheet %s: %w", s.name, err)
	}
	for i, row := range rows {
		rowIdx := i + 1
		if rowIdx == HeaderRow {
			continue
		}
		if col-1 < len(row) && row[col-1] == value {
			return rowIdx, nil
		}
	}
	return 0, ErrNotFound
}

// CellUpdate names one target column (1-based) and its new value.
type CellUpdate struct {
	Col   int
	Value any
}

// UpdateCell overwrites a single cell and saves the workbook.
// PRE: row and col are 1-based and inside the sheet
func (s *Sheet) UpdateCell(row, col int, value any) error {
	return s.UpdateCells(row, []CellUpdate{{Col: col, Value: value}})
}

// UpdateCells overwrites the given cells of one row with a single save, so
// the caller sees either every cell updated or an error for the whole set.
// PRE: row and every column are 1-based and inside the sheet
func (s *Sheet) UpdateCells(row int, updates []CellUpdate) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	for _, u := range updates {
		cell, err := excelize.CoordinatesToCellName(u.Col, row)
		if err != nil {
			return fmt.Errorf("cell address (%d,%d): %w", u.Col, row, err)
		}
		if err := s.wb.file.SetCellValue(s.name, cell, u.Value); err != nil {
			return fmt.Errorf("update %s!%s: %w", s.name, cell, err)
		}
	}
	if err := s.wb.file.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// AppendRow adds one row after the last populated row and saves.
func (s *Sheet) AppendRow(values []any) error {
	return s.AppendRows([][]any{values})
}

// AppendRows adds all given rows in one batch with a single save, so the
// caller sees either every row appended or an error for the whole batch.
// PRE: len(rows) > 0
func (s *Sheet) AppendRows(rows [][]any) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	existing, err := s.wb.file.GetRows(s.name)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", s.name, err)
	}
	next := len(existing) + 1
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return fmt.Errorf("cell address row %d: %w", next+i, err)
		}
		r := row
		if err := s.wb.file.SetSheetRow(s.name, cell, &r); err != nil {
			return fmt.Errorf("append row %d to %s: %w", next+i, s.name, err)
		}
	}
	if err := s.wb.file.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Rows returns every data row as text, header excluded. Trailing empty
// cells may be absent; callers index defensively.
func (s *Sheet) Rows() ([][]string, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	rows, err := s.wb.file.GetRows(s.name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.name, err)
	}
	if len(rows) <= HeaderRow {
		return nil, nil
	}
	return rows[HeaderRow:], nil
}
