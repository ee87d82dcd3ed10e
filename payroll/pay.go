package payroll

import (
	"github.com/shopspring/decimal"
)

// HolidayPay is the premium for holidayHours: PayRate * hours * multiplier,
// rounded to cents. holidayHours comes from HolidayHours, which rounds any
// overlap it computes.
func HolidayPay(s Shift, holidayHours decimal.Decimal, rules Rules) decimal.Decimal {
	return round2(s.PayRate.Mul(holidayHours).Mul(rules.HolidayMultiplier))
}

// TotalPay is the full compensation for the shift including holidayPay,
// rounded to cents once after the whole sum.
func TotalPay(s Shift, holidayPay decimal.Decimal, rules Rules) decimal.Decimal {
	total := s.PayRate.Mul(s.RegularHours).
		Add(s.OvertimePayRate.Mul(s.OvertimeHours))

	if rules.Formula != FormulaSimple {
		total = total.
			Add(s.DoubletimeRate.Mul(s.DoubletimeHours)).
			Add(s.Stipend)
	}

	return round2(total.Add(holidayPay))
}

// Derive runs the three calculations in dependency order.
func Derive(h Holiday, s Shift, rules Rules) (holidayHours, holidayPay, totalPay decimal.Decimal) {
	holidayHours = HolidayHours(h, s, rules)
	holidayPay = HolidayPay(s, holidayHours, rules)
	totalPay = TotalPay(s, holidayPay, rules)
	return holidayHours, holidayPay, totalPay
}
