/*
Package factory provides JSON to Go rule set conversion.

PURPOSE:
  Converts JSON rule definitions into payroll.Rules. Payroll admins can
  switch the holiday multiplier, the approval threshold, the compatibility
  knobs, or the export's header names without a code change.

JSON SCHEMA:
  {
    "name": "standard",
    "holiday_multiplier": 0.5,
    "approval_threshold": 2000,
    "deduction": "overtime_and_doubletime",
    "formula": "full",
    "timestamp_layouts": ["2006-01-02 03:04 PM"],
    "lenient_timestamps": false,
    "timezone": "UTC",
    "columns": {"name": "Employee", "total_pay": "Gross"}
  }

  Every field is optional. Absent fields keep the factory's base rules, so
  a document can be a full rule set or a handful of overrides.

PRESETS:
  StandardRulesJSON: canonical behaviour
  LegacyRulesJSON:   overtime-only deduction, simple total pay formula

USAGE:
  f := factory.NewRulesFactory(payroll.DefaultRules())
  rules, err := f.ParseRules(factory.LegacyRulesJSON())

SEE ALSO:
  - payroll/rules.go: Rules type and validation
  - config/config.go: Loads a rules file at startup
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	_ "time/tzdata" // timezone names resolve without a system zoneinfo

	"github.com/shopspring/decimal"
	"github.com/warp/holiday-pay/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesJSON is the JSON representation of a rule set.
type RulesJSON struct {
	Name              string           `json:"name,omitempty"`
	HolidayMultiplier *decimal.Decimal `json:"holiday_multiplier,omitempty"`
	ApprovalThreshold *decimal.Decimal `json:"approval_threshold,omitempty"`
	Deduction         string           `json:"deduction,omitempty"` // overtime_only, overtime_and_doubletime
	Formula           string           `json:"formula,omitempty"`   // full, simple
	TimestampLayouts  []string         `json:"timestamp_layouts,omitempty"`
	LenientTimestamps *bool            `json:"lenient_timestamps,omitempty"`
	Timezone          string           `json:"timezone,omitempty"` // IANA name
	Columns           *ColumnsJSON     `json:"columns,omitempty"`
}

// ColumnsJSON overrides individual header names.
type ColumnsJSON struct {
	CreatedAt       string `json:"created_at,omitempty"`
	Name            string `json:"name,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	HoursWorked     string `json:"hours_worked,omitempty"`
	Lunch           string `json:"lunch,omitempty"`
	RegularHours    string `json:"regular_hours,omitempty"`
	OvertimeHours   string `json:"overtime_hours,omitempty"`
	DoubletimeHours string `json:"doubletime_hours,omitempty"`
	PayRate         string `json:"pay_rate,omitempty"`
	OvertimePayRate string `json:"overtime_pay_rate,omitempty"`
	DoubletimeRate  string `json:"doubletime_rate,omitempty"`
	Stipend         string `json:"stipend,omitempty"`
	HolidayHours    string `json:"holiday_hours,omitempty"`
	HolidayPay      string `json:"holiday_pay,omitempty"`
	TotalPay        string `json:"total_pay,omitempty"`
}

// =============================================================================
// RULES FACTORY
// =============================================================================

// RulesFactory converts JSON rule sets to payroll.Rules, layering them
// over a base.
type RulesFactory struct {
	base payroll.Rules
}

// NewRulesFactory creates a factory whose documents override base.
func NewRulesFactory(base payroll.Rules) *RulesFactory {
	return &RulesFactory{base: base}
}

// Base returns the rules documents are layered over.
func (f *RulesFactory) Base() payroll.Rules {
	return f.base
}

// ParseRules parses a JSON string into validated Rules. Unknown fields are
// rejected so a misspelled knob does not silently fall back to the base.
func (f *RulesFactory) ParseRules(jsonStr string) (payroll.Rules, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(jsonStr)))
	dec.DisallowUnknownFields()

	var rj RulesJSON
	if err := dec.Decode(&rj); err != nil {
		return payroll.Rules{}, fmt.Errorf("%w: failed to parse rules JSON: %v", payroll.ErrInvalidRules, err)
	}
	return f.FromJSON(rj)
}

// FromJSON applies rj over the base rules and validates the result.
func (f *RulesFactory) FromJSON(rj RulesJSON) (payroll.Rules, error) {
	rules := f.base
	rules.TimestampLayouts = append([]string(nil), f.base.TimestampLayouts...)

	if rj.HolidayMultiplier != nil {
		rules.HolidayMultiplier = *rj.HolidayMultiplier
	}
	if rj.ApprovalThreshold != nil {
		rules.ApprovalThreshold = *rj.ApprovalThreshold
	}
	if rj.Deduction != "" {
		rules.Deduction = payroll.DeductionMode(rj.Deduction)
	}
	if rj.Formula != "" {
		rules.Formula = payroll.PayFormula(rj.Formula)
	}
	if len(rj.TimestampLayouts) > 0 {
		rules.TimestampLayouts = append([]string(nil), rj.TimestampLayouts...)
	}
	if rj.LenientTimestamps != nil {
		rules.LenientTimestamps = *rj.LenientTimestamps
	}
	if rj.Timezone != "" {
		loc, err := time.LoadLocation(rj.Timezone)
		if err != nil {
			return payroll.Rules{}, &payroll.RulesError{Field: "timezone", Reason: err.Error()}
		}
		rules.Location = loc
	}
	if rj.Columns != nil {
		rules.Columns = applyColumns(rules.Columns, *rj.Columns)
	}

	if err := rules.Validate(); err != nil {
		return payroll.Rules{}, err
	}
	return rules, nil
}

// ToJSON converts Rules to a complete RulesJSON.
func (f *RulesFactory) ToJSON(rules payroll.Rules) RulesJSON {
	multiplier := rules.HolidayMultiplier
	threshold := rules.ApprovalThreshold
	lenient := rules.LenientTimestamps

	tz := "UTC"
	if rules.Location != nil {
		tz = rules.Location.String()
	}

	c := rules.Columns
	return RulesJSON{
		HolidayMultiplier: &multiplier,
		ApprovalThreshold: &threshold,
		Deduction:         string(rules.Deduction),
		Formula:           string(rules.Formula),
		TimestampLayouts:  append([]string(nil), rules.TimestampLayouts...),
		LenientTimestamps: &lenient,
		Timezone:          tz,
		Columns: &ColumnsJSON{
			CreatedAt:       c.CreatedAt,
			Name:            c.Name,
			StartTime:       c.StartTime,
			EndTime:         c.EndTime,
			HoursWorked:     c.HoursWorked,
			Lunch:           c.Lunch,
			RegularHours:    c.RegularHours,
			OvertimeHours:   c.OvertimeHours,
			DoubletimeHours: c.DoubletimeHours,
			PayRate:         c.PayRate,
			OvertimePayRate: c.OvertimePayRate,
			DoubletimeRate:  c.DoubletimeRate,
			Stipend:         c.Stipend,
			HolidayHours:    c.HolidayHours,
			HolidayPay:      c.HolidayPay,
			TotalPay:        c.TotalPay,
		},
	}
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func applyColumns(c payroll.Columns, cj ColumnsJSON) payroll.Columns {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.CreatedAt, cj.CreatedAt)
	set(&c.Name, cj.Name)
	set(&c.StartTime, cj.StartTime)
	set(&c.EndTime, cj.EndTime)
	set(&c.HoursWorked, cj.HoursWorked)
	set(&c.Lunch, cj.Lunch)
	set(&c.RegularHours, cj.RegularHours)
	set(&c.OvertimeHours, cj.OvertimeHours)
	set(&c.DoubletimeHours, cj.DoubletimeHours)
	set(&c.PayRate, cj.PayRate)
	set(&c.OvertimePayRate, cj.OvertimePayRate)
	set(&c.DoubletimeRate, cj.DoubletimeRate)
	set(&c.Stipend, cj.Stipend)
	set(&c.HolidayHours, cj.HolidayHours)
	set(&c.HolidayPay, cj.HolidayPay)
	set(&c.TotalPay, cj.TotalPay)
	return c
}
