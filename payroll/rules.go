package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPATIBILITY KNOBS
// =============================================================================

// DeductionMode selects which non-regular hours are subtracted from the
// overlap of a shift that starts before the holiday and ends on it.
type DeductionMode string

const (
	DeductOvertimeOnly          DeductionMode = "overtime_only"
	DeductOvertimeAndDoubletime DeductionMode = "overtime_and_doubletime"
)

// PayFormula selects the total pay expression.
type PayFormula string

const (
	// FormulaFull: regular + overtime + doubletime + stipend + holiday pay.
	FormulaFull PayFormula = "full"
	// FormulaSimple is the legacy expression without doubletime or stipend.
	FormulaSimple PayFormula = "simple"
)

// =============================================================================
// COLUMNS - Header names of the timesheet export
// =============================================================================

// Columns maps each field to its header text.
type Columns struct {
	CreatedAt       string
	Name            string
	StartTime       string
	EndTime         string
	HoursWorked     string
	Lunch           string
	RegularHours    string
	OvertimeHours   string
	DoubletimeHours string
	PayRate         string
	OvertimePayRate string
	DoubletimeRate  string
	Stipend         string

	// Derived output columns.
	HolidayHours string
	HolidayPay   string
	TotalPay     string
}

// DefaultColumns are the headers of the timecard export this engine was
// built for.
func DefaultColumns() Columns {
	return Columns{
		CreatedAt:       "Created At (UTC)",
		Name:            "Name",
		StartTime:       "Start Time",
		EndTime:         "End Time",
		HoursWorked:     "Hours Worked",
		Lunch:           "Lunch (in mins)",
		RegularHours:    "Regular Hours Worked",
		OvertimeHours:   "Overtime Hours Worked",
		DoubletimeHours: "Doubletime Hours Worked",
		PayRate:         "Pay Rate",
		OvertimePayRate: "Overtime Pay Rate",
		DoubletimeRate:  "Doubletime Pay Rate",
		Stipend:         "Stipend (Pro-rated)",
		HolidayHours:    "HOL",
		HolidayPay:      "Adjustment",
		TotalPay:        "Total Pay",
	}
}

// Output returns the projected header in output order.
func (c Columns) Output() []string {
	return []string{
		c.CreatedAt,
		c.Name,
		c.StartTime,
		c.EndTime,
		c.HoursWorked,
		c.OvertimeHours,
		c.PayRate,
		c.HolidayHours,
		c.HolidayPay,
		c.TotalPay,
	}
}

// columnField pairs a rules-document key with its header name.
type columnField struct {
	key    string
	header string
}

// all lists every header in document order.
func (c Columns) all() []columnField {
	return []columnField{
		{"created_at", c.CreatedAt},
		{"name", c.Name},
		{"start_time", c.StartTime},
		{"end_time", c.EndTime},
		{"hours_worked", c.HoursWorked},
		{"lunch", c.Lunch},
		{"regular_hours", c.RegularHours},
		{"overtime_hours", c.OvertimeHours},
		{"doubletime_hours", c.DoubletimeHours},
		{"pay_rate", c.PayRate},
		{"overtime_pay_rate", c.OvertimePayRate},
		{"doubletime_rate", c.DoubletimeRate},
		{"stipend", c.Stipend},
		{"holiday_hours", c.HolidayHours},
		{"holiday_pay", c.HolidayPay},
		{"total_pay", c.TotalPay},
	}
}

// =============================================================================
// RULES
// =============================================================================

// TimestampLayout is the export's timestamp format: YYYY-MM-DD hh:mm AM/PM.
const TimestampLayout = "2006-01-02 03:04 PM"

// Rules holds every constant the pipeline depends on. A Transformer copies
// its Rules at construction; changing a Rules value afterwards has no effect.
type Rules struct {
	// HolidayMultiplier is the premium paid on top of the regular rate for
	// each holiday hour (0.5 = half-rate premium).
	HolidayMultiplier decimal.Decimal

	// ApprovalThreshold flags a shift whose total pay is at or above it.
	ApprovalThreshold decimal.Decimal

	Deduction DeductionMode
	Formula   PayFormula
	Columns   Columns

	// TimestampLayouts are tried in order. LenientTimestamps adds a
	// free-form fallback after all layouts fail.
	TimestampLayouts  []string
	LenientTimestamps bool

	// Location anchors timestamps without a zone and the holiday window.
	// Nil means UTC.
	Location *time.Location
}

// DefaultRules returns the canonical rule set.
func DefaultRules() Rules {
	return Rules{
		HolidayMultiplier: decimal.NewFromFloat(0.5),
		ApprovalThreshold: decimal.NewFromInt(2000),
		Deduction:         DeductOvertimeAndDoubletime,
		Formula:           FormulaFull,
		Columns:           DefaultColumns(),
		// The unpadded hour layout also accepts zero-padded hours.
		TimestampLayouts: []string{TimestampLayout, "2006-01-02 3:04 PM"},
		Location:         time.UTC,
	}
}

// Validate reports the first unusable field.
func (r Rules) Validate() error {
	if r.HolidayMultiplier.IsNegative() {
		return &RulesError{Field: "holiday_multiplier", Reason: "must not be negative"}
	}
	if r.ApprovalThreshold.IsNegative() {
		return &RulesError{Field: "approval_threshold", Reason: "must not be negative"}
	}

	switch r.Deduction {
	case DeductOvertimeOnly, DeductOvertimeAndDoubletime:
	default:
		return &RulesError{Field: "deduction", Reason: "unknown mode " + string(r.Deduction)}
	}

	switch r.Formula {
	case FormulaFull, FormulaSimple:
	default:
		return &RulesError{Field: "formula", Reason: "unknown formula " + string(r.Formula)}
	}

	if len(r.TimestampLayouts) == 0 && !r.LenientTimestamps {
		return &RulesError{Field: "timestamp_layouts", Reason: "at least one layout is required"}
	}

	seen := make(map[string]string)
	for _, c := range r.Columns.all() {
		if c.header == "" {
			return &RulesError{Field: "columns." + c.key, Reason: "header name is empty"}
		}
		if other, dup := seen[c.header]; dup {
			return &RulesError{Field: "columns." + c.key, Reason: "duplicates columns." + other}
		}
		seen[c.header] = c.key
	}
	return nil
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// deductible is the non-regular time subtracted from a before-and-on
// holiday overlap.
func (r Rules) deductible(s Shift) decimal.Decimal {
	if r.Deduction == DeductOvertimeOnly {
		return s.OvertimeHours
	}
	return s.OvertimeHours.Add(s.DoubletimeHours)
}

func (r Rules) clone() Rules {
	out := r
	out.TimestampLayouts = append([]string(nil), r.TimestampLayouts...)
	out.Location = r.location()
	return out
}
