package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeeksEquivalent(t *testing.T) {
	tests := []struct {
		number int
		unit   DurationUnit
		want   int
	}{
		{10, DurationDays, 2},
		{7, DurationDays, 1},
		{8, DurationDays, 2},
		{6, DurationWeeks, 6},
		{3, DurationMonths, 12},
		{1, DurationYears, 52},
		{-4, DurationWeeks, 0},
		{5, DurationUnit("fortnights"), 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WeeksEquivalent(tt.number, tt.unit),
			"%d %s", tt.number, tt.unit)
	}
}

func TestMonthsEquivalent(t *testing.T) {
	tests := []struct {
		number int
		unit   DurationUnit
		want   int
	}{
		{30, DurationDays, 1},
		{31, DurationDays, 2},
		{4, DurationWeeks, 1},
		{5, DurationWeeks, 2},
		{6, DurationMonths, 6},
		{2, DurationYears, 24},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MonthsEquivalent(tt.number, tt.unit),
			"%d %s", tt.number, tt.unit)
	}
}

func TestPeriodCount(t *testing.T) {
	tests := []struct {
		plan   PaymentPlan
		number int
		unit   DurationUnit
		want   int
	}{
		{PaymentPlanWeekly, 4, DurationWeeks, 4},
		{PaymentPlanWeekly, 2, DurationMonths, 8},
		{PaymentPlanBiWeekly, 4, DurationWeeks, 2},
		{PaymentPlanBiWeekly, 5, DurationWeeks, 3},
		{PaymentPlanMonthly, 6, DurationMonths, 6},
		{PaymentPlanMonthly, 5, DurationWeeks, 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PeriodCount(tt.plan, tt.number, tt.unit),
			"%s %d %s", tt.plan, tt.number, tt.unit)
	}
}

func TestDueDates_Weekly(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 21)

	dates := DueDates(PaymentPlanWeekly, start, end)

	assert.Len(t, dates, 4)
	assert.Equal(t, start, dates[0])
	assert.Equal(t, end, dates[3])
}

func TestDueDates_MonthlyStepsByCalendarMonth(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	dates := DueDates(PaymentPlanMonthly, start, end)

	// Jan 31 steps to Mar 2 (Feb 31 normalized), then Apr 2.
	assert.Len(t, dates, 3)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), dates[1])
	assert.Equal(t, time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), dates[2])
}

func TestDueDates_EndBeforeStart(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, DueDates(PaymentPlanWeekly, start, start.AddDate(0, 0, -1)))
}

func TestDueDates_CappedAtMaxSteps(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(100, 0, 0)

	dates := DueDates(PaymentPlanWeekly, start, end)
	assert.Len(t, dates, maxScheduleSteps)
}

func TestInstallmentAmount(t *testing.T) {
	got := InstallmentAmount(decimal.NewFromInt(2200), 4)
	assert.True(t, got.Equal(decimal.NewFromInt(550)), "got %s", got)

	assert.True(t, InstallmentAmount(decimal.NewFromInt(2200), 0).IsZero())
}

func TestScheduledAmounts_FinalPeriodAbsorbsRemainder(t *testing.T) {
	amounts := ScheduledAmounts(decimal.NewFromInt(1000), 3)

	assert.Len(t, amounts, 3)
	assert.True(t, amounts[0].Equal(decimal.RequireFromString("333.33")))
	assert.True(t, amounts[1].Equal(decimal.RequireFromString("333.33")))
	assert.True(t, amounts[2].Equal(decimal.RequireFromString("333.34")))

	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1000)))
}

func TestScheduledAmounts_FinalPeriodFlooredAtZero(t *testing.T) {
	// Rounding up can push per-period amounts past the total.
	amounts := ScheduledAmounts(decimal.RequireFromString("0.01"), 3)

	assert.Len(t, amounts, 3)
	assert.False(t, amounts[2].IsNegative())
}

func TestAddDuration(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, date.AddDate(0, 0, 10), AddDuration(date, 10, DurationDays))
	assert.Equal(t, date.AddDate(0, 0, 28), AddDuration(date, 4, DurationWeeks))
	assert.Equal(t, date.AddDate(0, 3, 0), AddDuration(date, 3, DurationMonths))
	assert.Equal(t, date.AddDate(1, 0, 0), AddDuration(date, 1, DurationYears))
}

func TestNextMonday(t *testing.T) {
	// 2024-03-04 is a Monday.
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday.AddDate(0, 0, 7), NextMonday(monday))
	assert.Equal(t, monday.AddDate(0, 0, 7), NextMonday(monday.AddDate(0, 0, 2)))
	assert.Equal(t, monday, NextMonday(monday.AddDate(0, 0, -1)))
}
