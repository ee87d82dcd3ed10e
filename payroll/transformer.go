/*
transformer.go - Whole-table holiday pay pipeline

STEPS (in order):
  1. Read recognized columns, drop the rest
  2. Default absent/blank numeric cells to 0
  3. Per row: holiday hours -> holiday pay -> total pay
  4. Project to the fixed output columns
  5. Stable sort by creation time
  6. Collect distinct names with total pay >= approval threshold

FAILURE:
  All or nothing. Any parse failure returns an error and no table.

CONCURRENCY:
  A Transformer is immutable after NewTransformer and may be shared by
  concurrent callers. Each call works on its own rows; the input Table is
  only read.
*/
package payroll

import (
	"fmt"
	"io"
	"sort"

	"github.com/warp/holiday-pay/table"
)

// Transformer applies one rule set to shift tables.
type Transformer struct {
	rules Rules
}

// NewTransformer validates rules and returns a Transformer holding a copy.
func NewTransformer(rules Rules) (*Transformer, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Transformer{rules: rules.clone()}, nil
}

// Rules returns a copy of the rule set in use.
func (t *Transformer) Rules() Rules {
	return t.rules.clone()
}

// Result is the outcome of one Process call.
type Result struct {
	Holiday       Holiday
	Rows          []Row       // sorted by creation time
	Table         table.Table // projected output
	ApprovalNames []string    // distinct, sorted
}

// Output is the serialized boundary form: CSV text plus approval names.
type Output struct {
	CSV           string
	ApprovalNames []string
	Rows          int
}

// Process runs the pipeline over in.
func (t *Transformer) Process(holiday Holiday, in table.Table) (*Result, error) {
	rows, err := parseRows(in, t.rules)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].HolidayHours, rows[i].HolidayPay, rows[i].TotalPay = Derive(holiday, rows[i].Shift, t.rules)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Shift.CreatedAt.Before(rows[j].Shift.CreatedAt)
	})

	return &Result{
		Holiday:       holiday,
		Rows:          rows,
		Table:         t.project(rows),
		ApprovalNames: t.approvalNames(rows),
	}, nil
}

// ProcessCSV parses the holiday first, so a bad date fails before the
// table is read, then runs Process over CSV text.
func (t *Transformer) ProcessCSV(holiday string, r io.Reader) (*Output, error) {
	h, err := ParseHoliday(holiday)
	if err != nil {
		return nil, err
	}

	in, err := table.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	res, err := t.Process(h, in)
	if err != nil {
		return nil, err
	}

	csv, err := table.CSVString(res.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to render output: %w", err)
	}
	return &Output{CSV: csv, ApprovalNames: res.ApprovalNames, Rows: len(res.Rows)}, nil
}

func (t *Transformer) project(rows []Row) table.Table {
	out := table.Table{
		Header: t.rules.Columns.Output(),
		Rows:   make([][]string, len(rows)),
	}
	for i, r := range rows {
		out.Rows[i] = []string{
			r.CreatedAtText,
			r.Shift.Name,
			r.StartTimeText,
			r.EndTimeText,
			r.Shift.HoursWorked.String(),
			r.Shift.OvertimeHours.String(),
			r.Shift.PayRate.String(),
			r.HolidayHours.String(),
			formatFixed(r.HolidayPay),
			formatFixed(r.TotalPay),
		}
	}
	return out
}

func (t *Transformer) approvalNames(rows []Row) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, r := range rows {
		if r.TotalPay.LessThan(t.rules.ApprovalThreshold) || seen[r.Shift.Name] {
			continue
		}
		seen[r.Shift.Name] = true
		names = append(names, r.Shift.Name)
	}
	sort.Strings(names)
	return names
}
