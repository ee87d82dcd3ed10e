package payroll

import (
	"github.com/shopspring/decimal"
)

// HolidayHours returns how many of the shift's regular hours fall on the
// holiday. Only the calendar dates of start and end are compared against
// the holiday date:
//
//	starts on, ends on      -> all regular hours
//	starts on, ends after   -> min(regular, hours from start to holiday end)
//	starts before, ends on  -> min(regular, max(hours from holiday start to end - deductible, 0))
//	anything else           -> 0
//
// Overtime and doubletime are paid at their own premium, so they never
// earn the holiday premium: the result never exceeds RegularHours.
func HolidayHours(h Holiday, s Shift, rules Rules) decimal.Decimal {
	loc := rules.location()
	day := h.Start(loc)
	startDay := civilDate(s.StartTime, loc)
	endDay := civilDate(s.EndTime, loc)

	switch {
	case startDay.Equal(day) && endDay.Equal(day):
		return s.RegularHours

	case startDay.Equal(day) && endDay.After(day):
		onHoliday := round2(HoursBetween(s.StartTime, h.End(loc)))
		return decimal.Min(s.RegularHours, onHoliday)

	case startDay.Before(day) && endDay.Equal(day):
		onHoliday := round2(HoursBetween(day, s.EndTime))
		adjusted := decimal.Max(onHoliday.Sub(rules.deductible(s)), decimal.Zero)
		return decimal.Min(s.RegularHours, adjusted)

	default:
		return decimal.Zero
	}
}
