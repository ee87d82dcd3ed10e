package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/holiday-pay/table"
)

// columnIndex holds the position of each recognized column, -1 if absent.
// Anything in the input not listed here is ignored.
type columnIndex struct {
	createdAt, name, startTime, endTime               int
	hoursWorked, lunch                                int
	regularHours, overtimeHours, doubletimeHours      int
	payRate, overtimePayRate, doubletimeRate, stipend int
}

func indexColumns(t table.Table, c Columns) (columnIndex, error) {
	idx := columnIndex{
		createdAt:       t.Index(c.CreatedAt),
		name:            t.Index(c.Name),
		startTime:       t.Index(c.StartTime),
		endTime:         t.Index(c.EndTime),
		hoursWorked:     t.Index(c.HoursWorked),
		lunch:           t.Index(c.Lunch),
		regularHours:    t.Index(c.RegularHours),
		overtimeHours:   t.Index(c.OvertimeHours),
		doubletimeHours: t.Index(c.DoubletimeHours),
		payRate:         t.Index(c.PayRate),
		overtimePayRate: t.Index(c.OvertimePayRate),
		doubletimeRate:  t.Index(c.DoubletimeRate),
		stipend:         t.Index(c.Stipend),
	}

	required := []struct {
		pos  int
		name string
	}{
		{idx.createdAt, c.CreatedAt},
		{idx.name, c.Name},
		{idx.startTime, c.StartTime},
		{idx.endTime, c.EndTime},
	}
	for _, r := range required {
		if r.pos < 0 {
			return columnIndex{}, &MissingColumnError{Column: r.name}
		}
	}
	return idx, nil
}

// rowParser reads one table row at a time into a Row. The first failure
// is kept and later calls become no-ops, so parseRow can read every field
// and check the error once.
type rowParser struct {
	t     table.Table
	rules Rules
	idx   columnIndex
	row   int
	err   error
}

func (p *rowParser) fail(col int, err error) {
	if p.err != nil {
		return
	}
	p.err = &CellError{
		Row:    p.row + 1,
		Column: strings.TrimSpace(p.t.Header[col]),
		Value:  p.t.Cell(p.row, col),
		Err:    err,
	}
}

func (p *rowParser) text(col int) string {
	v := p.t.Cell(p.row, col)
	if v == "" {
		p.fail(col, ErrEmptyValue)
	}
	return v
}

func (p *rowParser) timestamp(col int) (time.Time, string) {
	raw := p.t.Cell(p.row, col)
	ts, err := p.rules.ParseTimestamp(raw)
	if err != nil {
		p.fail(col, err)
	}
	return ts, raw
}

// number reads an optional non-negative value; absent column or null cell
// defaults to zero.
func (p *rowParser) number(col int) decimal.Decimal {
	raw := p.t.Cell(p.row, col)
	if isNull(raw) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.fail(col, err)
		return decimal.Zero
	}
	if d.IsNegative() {
		p.fail(col, ErrNegativeValue)
		return decimal.Zero
	}
	return d
}

// isNull treats blank cells and the spreadsheet spellings of a missing
// value as absent.
func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "n/a", "na":
		return true
	}
	return false
}

func (p *rowParser) parseRow(i int) (Row, error) {
	p.row = i
	p.err = nil

	var r Row
	r.Shift.CreatedAt, r.CreatedAtText = p.timestamp(p.idx.createdAt)
	r.Shift.Name = p.text(p.idx.name)
	r.Shift.StartTime, r.StartTimeText = p.timestamp(p.idx.startTime)
	r.Shift.EndTime, r.EndTimeText = p.timestamp(p.idx.endTime)

	r.Shift.HoursWorked = p.number(p.idx.hoursWorked)
	r.Shift.LunchMinutes = p.number(p.idx.lunch)
	r.Shift.RegularHours = p.number(p.idx.regularHours)
	r.Shift.OvertimeHours = p.number(p.idx.overtimeHours)
	r.Shift.DoubletimeHours = p.number(p.idx.doubletimeHours)
	r.Shift.PayRate = p.number(p.idx.payRate)
	r.Shift.OvertimePayRate = p.number(p.idx.overtimePayRate)
	r.Shift.DoubletimeRate = p.number(p.idx.doubletimeRate)
	r.Shift.Stipend = p.number(p.idx.stipend)

	if p.err != nil {
		return Row{}, p.err
	}
	return r, nil
}

// parseRows converts every data row, stopping at the first bad cell.
func parseRows(t table.Table, rules Rules) ([]Row, error) {
	idx, err := indexColumns(t, rules.Columns)
	if err != nil {
		return nil, err
	}

	p := &rowParser{t: t, rules: rules, idx: idx}
	rows := make([]Row, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		r, err := p.parseRow(i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}
