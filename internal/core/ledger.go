package core

import (
	"sort"
	"time"
)

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Category string
	Amount   Money
}

// WeekdayAmount is an amount aggregated under a weekday label (Mon..Sun).
type WeekdayAmount struct {
	Weekday string
	Amount  Money
}

// DayAmount is an amount aggregated under a literal calendar date
// (YYYY-MM-DD) so that entries from different weeks never collide.
type DayAmount struct {
	Day    string
	Amount Money
}

// MonthOverview is a compact spend summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
}

// WeekReport summarizes the inclusive seven-day window ending at the
// reference instant.
type WeekReport struct {
	Total       Money
	ByDay       []DayAmount // ascending date order
	BestDay     DayAmount   // lowest-spend day; zero value when ByDay is empty
	WorstDay    DayAmount   // highest-spend day
	TopCategory CategoryAmount
}

// inMonth reports whether the expense date falls in the given calendar
// year+month bucket. A zero date never matches: records with missing or
// unparseable dates are excluded from every aggregate, not treated as fatal.
func inMonth(d Date, year, month int) bool {
	if d.IsZero() {
		return false
	}
	return d.Year() == year && d.Month() == month
}

// TotalForMonth sums the amounts of all expenses in the given calendar
// month bucket. Empty input yields zero.
func TotalForMonth(expenses []Expense, year, month int) Money {
	var total Money
	for _, e := range expenses {
		if inMonth(e.Date, year, month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// CategoryTotalsForMonth groups the month's expenses by category, exact
// case-sensitive match. The result preserves first-encounter order and
// never contains a zero-spend category.
func CategoryTotalsForMonth(expenses []Expense, year, month int) []CategoryAmount {
	index := make(map[string]int)
	var totals []CategoryAmount
	for _, e := range expenses {
		if !inMonth(e.Date, year, month) {
			continue
		}
		if i, ok := index[e.Category]; ok {
			totals[i].Amount = totals[i].Amount.Add(e.Amount)
			continue
		}
		index[e.Category] = len(totals)
		totals = append(totals, CategoryAmount{Category: e.Category, Amount: e.Amount})
	}
	return totals
}

// TopCategory returns the entry with the maximum amount. Ties keep the
// earlier entry, so the result is stable across identical inputs.
func TopCategory(totals []CategoryAmount) (CategoryAmount, bool) {
	if len(totals) == 0 {
		return CategoryAmount{}, false
	}
	top := totals[0]
	for _, ca := range totals[1:] {
		if ca.Amount.Cents > top.Amount.Cents {
			top = ca
		}
	}
	return top, true
}

var weekdayOrder = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyTrend sums the month's expenses by weekday name. Every weekday is
// present in the output, zero-valued when nothing was spent, ordered
// Mon through Sun regardless of input order.
func WeeklyTrend(expenses []Expense, year, month int) []WeekdayAmount {
	byDay := make(map[string]Money, 7)
	for _, e := range expenses {
		if !inMonth(e.Date, year, month) {
			continue
		}
		day := e.Date.Weekday().String()[:3]
		byDay[day] = byDay[day].Add(e.Amount)
	}
	trend := make([]WeekdayAmount, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		trend = append(trend, WeekdayAmount{Weekday: day, Amount: byDay[day]})
	}
	return trend
}

// MonthOverMonthDelta returns ((previous - current) / previous) * 100 when
// the previous total is positive, else 0. Positive means the current month
// is cheaper than the previous one; negative means spend went up.
func MonthOverMonthDelta(current, previous Money) float64 {
	if previous.Cents <= 0 {
		return 0
	}
	return float64(previous.Cents-current.Cents) / float64(previous.Cents) * 100
}

// PreviousMonth returns the calendar month immediately before the given one.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// LastSevenDays aggregates the inclusive window [now-7d, now] at
// calendar-day granularity: weekly total, per-day breakdown keyed by the
// literal date, lowest and highest spend days, and the window's top
// category.
func LastSevenDays(expenses []Expense, now time.Time) WeekReport {
	weekAgo := now.AddDate(0, 0, -7)

	var report WeekReport
	dayIndex := make(map[string]int)
	var catTotals []CategoryAmount
	catIndex := make(map[string]int)

	for _, e := range expenses {
		if e.Date.IsZero() || e.Date.Before(weekAgo) || e.Date.After(now) {
			continue
		}
		report.Total = report.Total.Add(e.Amount)

		day := e.Date.Format("2006-01-02")
		if i, ok := dayIndex[day]; ok {
			report.ByDay[i].Amount = report.ByDay[i].Amount.Add(e.Amount)
		} else {
			dayIndex[day] = len(report.ByDay)
			report.ByDay = append(report.ByDay, DayAmount{Day: day, Amount: e.Amount})
		}

		if i, ok := catIndex[e.Category]; ok {
			catTotals[i].Amount = catTotals[i].Amount.Add(e.Amount)
		} else {
			catIndex[e.Category] = len(catTotals)
			catTotals = append(catTotals, CategoryAmount{Category: e.Category, Amount: e.Amount})
		}
	}

	// ISO date strings sort chronologically.
	sort.SliceStable(report.ByDay, func(i, j int) bool {
		return report.ByDay[i].Day < report.ByDay[j].Day
	})

	for i, d := range report.ByDay {
		if i == 0 {
			report.BestDay, report.WorstDay = d, d
			continue
		}
		if d.Amount.Cents < report.BestDay.Amount.Cents {
			report.BestDay = d
		}
		if d.Amount.Cents > report.WorstDay.Amount.Cents {
			report.WorstDay = d
		}
	}

	if top, ok := TopCategory(catTotals); ok {
		report.TopCategory = top
	}
	return report
}

// Overview bundles the month total and category breakdown in one pass.
func Overview(expenses []Expense, year, month int) MonthOverview {
	return MonthOverview{
		Year:       year,
		Month:      month,
		Total:      TotalForMonth(expenses, year, month),
		ByCategory: CategoryTotalsForMonth(expenses, year, month),
	}
}

// Savings is the monthly budget minus total spend. It may be negative;
// callers clamp for display if they want to.
func Savings(budget, totalSpent Money) Money {
	return budget.Sub(totalSpent)
}
