package payroll_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/holiday-pay/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var newYearsDay = payroll.NewHoliday(2021, time.January, 1)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := payroll.DefaultRules().ParseTimestamp(s)
	require.NoError(t, err)
	return v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func shift(t *testing.T, start, end string, regular, overtime, doubletime string) payroll.Shift {
	t.Helper()
	return payroll.Shift{
		Name:            "Test",
		StartTime:       ts(t, start),
		EndTime:         ts(t, end),
		RegularHours:    dec(regular),
		OvertimeHours:   dec(overtime),
		DoubletimeHours: dec(doubletime),
		PayRate:         dec("20"),
	}
}

// =============================================================================
// CLASSIFICATION CASES
// =============================================================================

func TestHolidayHours_EntirelyOnHoliday_AllRegularHours(t *testing.T) {
	s := shift(t, "2021-01-01 08:00 AM", "2021-01-01 04:00 PM", "8", "0", "0")
	assertDecimal(t, "8", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))
}

func TestHolidayHours_EntirelyOnHoliday_IgnoresOvertime(t *testing.T) {
	// Overtime was classified upstream; only the regular bucket counts.
	s := shift(t, "2021-01-01 06:00 AM", "2021-01-01 08:00 PM", "8", "4", "2")
	assertDecimal(t, "8", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))
}

func TestHolidayHours_StartsOnEndsAfter_OverlapToMidnight(t *testing.T) {
	// 8 PM to midnight is 4 hours, less than the 8 regular hours.
	s := shift(t, "2021-01-01 08:00 PM", "2021-01-02 06:00 AM", "8", "2", "0")
	assertDecimal(t, "4", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))
}

func TestHolidayHours_StartsOnEndsAfter_CappedAtRegular(t *testing.T) {
	s := shift(t, "2021-01-01 08:00 PM", "2021-01-02 06:00 AM", "3", "7", "0")
	assertDecimal(t, "3", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))
}

func TestHolidayHours_StartsOnEndsAfter_RoundsOverlap(t *testing.T) {
	// 9:20 PM to midnight = 2h40m = 2.666... hours
	s := shift(t, "2021-01-01 09:20 PM", "2021-01-02 05:20 AM", "8", "0", "0")
	assertDecimal(t, "2.67", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))
}

func TestHolidayHours_StartsBeforeEndsOn_OvernightScenario(t *testing.T) {
	// GIVEN: 8 PM Dec 31 to 4 AM Jan 1, no overtime
	// THEN: midnight to 4 AM = 4 holiday hours
	s := shift(t, "2020-12-31 08:00 PM", "2021-01-01 04:00 AM", "8", "0", "0")
	assertDecimal(t, "4", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))
}

func TestHolidayHours_StartsBeforeEndsOn_DeductsOvertimeAndDoubletime(t *testing.T) {
	// GIVEN: 16 hour shift, 8 of them after midnight; 4 OT + 2 DT
	s := shift(t, "2020-12-31 04:00 PM", "2021-01-01 08:00 AM", "10", "4", "2")

	// Default subtracts both buckets: 8 - 6 = 2
	assertDecimal(t, "2", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))

	// Compatibility mode subtracts overtime only: 8 - 4 = 4
	rules := payroll.DefaultRules()
	rules.Deduction = payroll.DeductOvertimeOnly
	assertDecimal(t, "4", payroll.HolidayHours(newYearsDay, s, rules))
}

func TestHolidayHours_StartsBeforeEndsOn_FloorsAtZero(t *testing.T) {
	s := shift(t, "2020-12-31 04:00 PM", "2021-01-01 02:00 AM", "8", "3", "1")
	assertDecimal(t, "0", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))
}

func TestHolidayHours_StartsBeforeEndsOn_CappedAtRegular(t *testing.T) {
	s := shift(t, "2020-12-31 11:00 PM", "2021-01-01 11:00 AM", "5", "0", "0")
	assertDecimal(t, "5", payroll.HolidayHours(newYearsDay, s, payroll.DefaultRules()))
}

func TestHolidayHours_NotOnHoliday_Zero(t *testing.T) {
	rules := payroll.DefaultRules()

	tests := []struct {
		name       string
		start, end string
	}{
		{"day before", "2020-12-31 08:00 AM", "2020-12-31 04:00 PM"},
		{"day after", "2021-01-02 08:00 AM", "2021-01-02 04:00 PM"},
		{"ends at holiday start", "2020-12-30 08:00 PM", "2020-12-31 11:59 PM"},
		{"spans whole holiday", "2020-12-31 10:00 PM", "2021-01-02 02:00 AM"},
		{"start after end", "2021-01-01 10:00 AM", "2020-12-31 10:00 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := shift(t, tt.start, tt.end, "8", "0", "0")
			assertDecimal(t, "0", payroll.HolidayHours(newYearsDay, s, rules))
		})
	}
}

func TestHolidayHours_UsesRulesLocation(t *testing.T) {
	// GIVEN: timestamps read in UTC-5
	rules := payroll.DefaultRules()
	rules.Location = time.FixedZone("EST", -5*60*60)

	start, err := rules.ParseTimestamp("2020-12-31 10:00 PM")
	require.NoError(t, err)
	end, err := rules.ParseTimestamp("2021-01-01 03:00 AM")
	require.NoError(t, err)

	s := payroll.Shift{StartTime: start, EndTime: end, RegularHours: dec("5")}

	// THEN: the local midnight splits the shift, not UTC midnight
	assertDecimal(t, "3", payroll.HolidayHours(newYearsDay, s, rules))
}

// =============================================================================
// HOURS BETWEEN
// =============================================================================

func TestHoursBetween_CrossesMidnightWithoutTruncation(t *testing.T) {
	a := ts(t, "2020-12-31 08:00 PM")
	b := ts(t, "2021-01-02 04:30 AM")
	assertDecimal(t, "32.5", payroll.HoursBetween(a, b))
}

func TestHoursBetween_Negative(t *testing.T) {
	a := ts(t, "2021-01-01 04:00 AM")
	b := ts(t, "2021-01-01 02:00 AM")
	assertDecimal(t, "-2", payroll.HoursBetween(a, b))
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestHolidayHours_Property_BoundedByRegularHours(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2020, time.December, 29, 0, 0, 0, 0, time.UTC)
	holidayStart := newYearsDay.Start(time.UTC)
	holidayEnd := newYearsDay.End(time.UTC)

	for _, mode := range []payroll.DeductionMode{payroll.DeductOvertimeOnly, payroll.DeductOvertimeAndDoubletime} {
		rules := payroll.DefaultRules()
		rules.Deduction = mode

		for i := 0; i < 2000; i++ {
			start := base.Add(time.Duration(rng.Intn(6*24*60)) * time.Minute)
			end := start.Add(time.Duration(rng.Intn(30*60)) * time.Minute)
			s := payroll.Shift{
				StartTime:       start,
				EndTime:         end,
				RegularHours:    decimal.NewFromInt(int64(rng.Intn(13))).Div(decimal.NewFromInt(2)),
				OvertimeHours:   decimal.NewFromInt(int64(rng.Intn(9))).Div(decimal.NewFromInt(4)),
				DoubletimeHours: decimal.NewFromInt(int64(rng.Intn(5))).Div(decimal.NewFromInt(4)),
				PayRate:         decimal.NewFromInt(int64(rng.Intn(60))),
			}

			hours, pay, _ := payroll.Derive(newYearsDay, s, rules)

			assert.False(t, hours.IsNegative(), "shift %v-%v", start, end)
			assert.False(t, hours.GreaterThan(s.RegularHours), "shift %v-%v", start, end)

			touchesHoliday := start.Before(holidayEnd) && !end.Before(holidayStart)
			if !touchesHoliday {
				assert.True(t, hours.IsZero(), "shift %v-%v", start, end)
				assert.True(t, pay.IsZero(), "shift %v-%v", start, end)
			}
		}
	}
}
