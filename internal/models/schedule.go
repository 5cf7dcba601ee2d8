package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPlan determines the repayment cadence of a loan
type PaymentPlan string

const (
	PaymentPlanWeekly   PaymentPlan = "weekly"
	PaymentPlanBiWeekly PaymentPlan = "bi-weekly"
	PaymentPlanMonthly  PaymentPlan = "monthly"
)

// DurationUnit is the unit of a loan duration
type DurationUnit string

const (
	DurationDays   DurationUnit = "days"
	DurationWeeks  DurationUnit = "weeks"
	DurationMonths DurationUnit = "months"
	DurationYears  DurationUnit = "years"
)

// maxScheduleSteps caps date-stepped schedule generation as a runaway guard
const maxScheduleSteps = 500

// WeeksEquivalent converts a duration to a whole number of weeks,
// floored at zero
func WeeksEquivalent(number int, unit DurationUnit) int {
	if number < 0 {
		return 0
	}

	switch unit {
	case DurationDays:
		return ceilDiv(number, 7)
	case DurationWeeks:
		return number
	case DurationMonths:
		return number * 4
	case DurationYears:
		return number * 52
	default:
		return 0
	}
}

// MonthsEquivalent converts a duration to a whole number of months,
// floored at zero. Monthly schedules use this table directly rather than
// dividing the weeks equivalent by four.
func MonthsEquivalent(number int, unit DurationUnit) int {
	if number < 0 {
		return 0
	}

	switch unit {
	case DurationDays:
		return ceilDiv(number, 30)
	case DurationWeeks:
		return ceilDiv(number, 4)
	case DurationMonths:
		return number
	case DurationYears:
		return number * 12
	default:
		return 0
	}
}

// PeriodCount derives the number of repayment periods from a payment plan
// and a duration
func PeriodCount(plan PaymentPlan, number int, unit DurationUnit) int {
	switch plan {
	case PaymentPlanWeekly:
		return WeeksEquivalent(number, unit)
	case PaymentPlanBiWeekly:
		return ceilDiv(WeeksEquivalent(number, unit), 2)
	case PaymentPlanMonthly:
		return MonthsEquivalent(number, unit)
	default:
		return 0
	}
}

// DueDates generates the due-date sequence by literal date-stepping from
// start up to and including end. When both dates are known this sequence is
// authoritative over the formulaic period count. Generation stops after
// maxScheduleSteps iterations.
func DueDates(plan PaymentPlan, start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}

	var dates []time.Time
	current := start

	for i := 0; i < maxScheduleSteps && !current.After(end); i++ {
		dates = append(dates, current)

		switch plan {
		case PaymentPlanBiWeekly:
			current = current.AddDate(0, 0, 14)
		case PaymentPlanMonthly:
			current = current.AddDate(0, 1, 0)
		default:
			current = current.AddDate(0, 0, 7)
		}
	}

	return dates
}

// InstallmentAmount is round2(total / periods); zero periods yield zero
func InstallmentAmount(total decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return decimal.Zero
	}
	return Round2(total.Div(decimal.NewFromInt(int64(periods))))
}

// ScheduledAmounts splits a repayable total over a number of periods. Every
// period carries the rounded installment except the final one, which absorbs
// the rounding remainder and is floored at zero.
func ScheduledAmounts(total decimal.Decimal, periods int) []decimal.Decimal {
	if periods <= 0 {
		return nil
	}

	per := InstallmentAmount(total, periods)
	amounts := make([]decimal.Decimal, periods)
	for i := 0; i < periods-1; i++ {
		amounts[i] = per
	}

	last := total.Sub(per.Mul(decimal.NewFromInt(int64(periods - 1))))
	if last.IsNegative() {
		last = decimal.Zero
	}
	amounts[periods-1] = Round2(last)

	return amounts
}

// AddDuration advances a date by a loan duration
func AddDuration(date time.Time, number int, unit DurationUnit) time.Time {
	switch unit {
	case DurationDays:
		return date.AddDate(0, 0, number)
	case DurationWeeks:
		return date.AddDate(0, 0, number*7)
	case DurationMonths:
		return date.AddDate(0, number, 0)
	case DurationYears:
		return date.AddDate(number, 0, 0)
	default:
		return date
	}
}

// NextMonday returns the next Monday strictly after the anchor date
func NextMonday(anchor time.Time) time.Time {
	days := (int(time.Monday) - int(anchor.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return anchor.AddDate(0, 0, days)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
