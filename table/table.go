/*
Package table provides the tabular form that timesheet exports travel in.

PURPOSE:
  A Table is a header row plus string cells, nothing more. The payroll
  engine reads shifts out of a Table and writes its projection back into
  one, so the same export can arrive as CSV text or as an XLSX workbook
  and leave in the same form it came in.

CODECS:
  csv.go:  ReadCSV / WriteCSV (encoding/csv, RFC 4180)
  xlsx.go: ReadXLSX / WriteXLSX (excelize)

SEE ALSO:
  - payroll/transformer.go: Consumes and produces Tables
*/
package table

import (
	"fmt"
	"strings"
)

// Table is a header row and its data rows. Rows may be shorter than the
// header; missing trailing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of the named column, or -1.
// Header names are compared after trimming surrounding whitespace.
func (t Table) Index(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at row/col, or "" when the row is short
// or col is negative.
func (t Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Clone returns a deep copy so callers can hand a Table off without
// sharing the backing slices.
func (t Table) Clone() Table {
	out := Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// fromRecords splits raw records into header and rows. Fully blank rows
// are dropped; exports often end with one.
func fromRecords(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, fmt.Errorf("table has no header row")
	}
	t := Table{Header: records[0]}
	for _, r := range records[1:] {
		if isBlank(r) {
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	// Strip a UTF-8 BOM some spreadsheet tools put in front of the first header.
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	}
	return t, nil
}

func isBlank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
