/*
Package payroll computes holiday-adjusted pay for timesheet exports.

PURPOSE:
  Given one observed holiday and a table of shifts, work out how many of
  each shift's regular hours fall on the holiday, the premium owed for
  them, and the total pay for the shift. Shifts whose total pay reaches
  the approval threshold are flagged by employee name.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift:   One row of the export, parsed into typed fields
  - Holiday: A calendar date, no time of day; its window is one local day
  - Row:     A Shift plus the three derived figures

PIPELINE:
  HolidayHours (hours.go) -> HolidayPay -> TotalPay (pay.go)
  Transformer (transformer.go) runs the chain over a whole table.

PRECISION:
  All hours and money use decimal.Decimal. Rounding is to 2 places, half
  away from zero, and happens at each step rather than once at the end:
  holiday hours are rounded before holiday pay is computed from them.

SEE ALSO:
  - rules.go:  Multiplier, threshold, and compatibility knobs
  - errors.go: Error taxonomy
*/
package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SHIFT - One timesheet row
// =============================================================================

// Shift is a single employee shift. Regular, overtime and doubletime hours
// are classified upstream by the timekeeping system and are never
// reclassified here.
type Shift struct {
	CreatedAt time.Time
	Name      string
	StartTime time.Time
	EndTime   time.Time

	HoursWorked  decimal.Decimal // informational
	LunchMinutes decimal.Decimal // informational

	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	DoubletimeHours decimal.Decimal

	PayRate         decimal.Decimal
	OvertimePayRate decimal.Decimal
	DoubletimeRate  decimal.Decimal
	Stipend         decimal.Decimal
}

// =============================================================================
// HOLIDAY - A calendar date
// =============================================================================

// Holiday is the observed holiday. It is a civil date; the window it covers
// depends on the location it is anchored in.
type Holiday struct {
	Year  int
	Month time.Month
	Day   int
}

func NewHoliday(year int, month time.Month, day int) Holiday {
	// Normalize through time.Date so out-of-range days roll over the same way.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Holiday{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Start is local midnight at the beginning of the holiday.
func (h Holiday) Start(loc *time.Location) time.Time {
	return time.Date(h.Year, h.Month, h.Day, 0, 0, 0, 0, loc)
}

// End is local midnight at the end of the holiday (exclusive).
func (h Holiday) End(loc *time.Location) time.Time {
	return h.Start(loc).AddDate(0, 0, 1)
}

func (h Holiday) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", h.Year, h.Month, h.Day)
}

// =============================================================================
// ROW - Shift plus derived figures
// =============================================================================

// Row is a parsed shift with its holiday figures. The *Text fields keep the
// cells exactly as they appeared in the input so the output table echoes
// them unchanged.
type Row struct {
	Shift Shift

	CreatedAtText string
	StartTimeText string
	EndTimeText   string

	HolidayHours decimal.Decimal
	HolidayPay   decimal.Decimal
	TotalPay     decimal.Decimal
}

// =============================================================================
// ROUNDING
// =============================================================================

const moneyPlaces = 2

// round2 rounds half away from zero to cents (or hundredths of an hour).
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// formatFixed renders a value with exactly two decimals.
func formatFixed(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}
