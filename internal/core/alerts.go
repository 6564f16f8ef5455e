package core

import (
	"math"
	"sort"
	"time"
)

// CapStatus classifies category spend against its configured cap.
type CapStatus string

const (
	CapOK          CapStatus = "ok"
	CapApproaching CapStatus = "approaching"
	CapExceeded    CapStatus = "exceeded"
	CapUnset       CapStatus = "no_cap"
)

const (
	// ApproachingPercent is the threshold at which a cap alert switches
	// from ok to approaching.
	ApproachingPercent = 80.0

	// OverspendThresholdPercent is the default share of the monthly budget
	// above which a single category counts as overspending.
	OverspendThresholdPercent = 30.0

	// UpcomingWindowDays is the default look-ahead for subscription
	// payment reminders; UrgentWindowDays marks the higher-severity tier.
	UpcomingWindowDays = 7
	UrgentWindowDays   = 2
)

// CapEvaluation is the alert fact produced for one category cap check.
type CapEvaluation struct {
	Category    string
	Status      CapStatus
	PercentUsed float64 // meaningless when Status is CapUnset
	Spent       Money
	Limit       Money
}

// EvaluateCategoryCap compares a category's spend against its cap. The
// spend passed in must already include the expense being added, so the
// check fires before the expense is finalized. A cap with limit <= 0 is
// treated as unset and never enforced.
func EvaluateCategoryCap(category string, spent, limit Money) CapEvaluation {
	ev := CapEvaluation{Category: category, Spent: spent, Limit: limit}
	if limit.Cents <= 0 {
		ev.Status = CapUnset
		return ev
	}
	ev.PercentUsed = float64(spent.Cents) / float64(limit.Cents) * 100
	switch {
	case ev.PercentUsed >= 100:
		ev.Status = CapExceeded
	case ev.PercentUsed >= ApproachingPercent:
		ev.Status = CapApproaching
	default:
		ev.Status = CapOK
	}
	return ev
}

// OverspendAlert marks a category whose monthly spend exceeds a share of
// the total budget.
type OverspendAlert struct {
	Category        string
	Amount          Money
	PercentOfBudget float64
}

// EvaluateOverspendCategories returns the categories whose spend exceeds
// thresholdPercent of the monthly budget, sorted descending by amount.
// With no budget set there is nothing to exceed.
func EvaluateOverspendCategories(totals []CategoryAmount, budget Money, thresholdPercent float64) []OverspendAlert {
	if budget.Cents <= 0 {
		return nil
	}
	var alerts []OverspendAlert
	for _, ca := range totals {
		pct := float64(ca.Amount.Cents) / float64(budget.Cents) * 100
		if pct > thresholdPercent {
			alerts = append(alerts, OverspendAlert{
				Category:        ca.Category,
				Amount:          ca.Amount,
				PercentOfBudget: pct,
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Amount.Cents > alerts[j].Amount.Cents
	})
	return alerts
}

// EvaluateWishlistAffordability returns the wishlist items whose price fits
// within the given savings figure. Priority has no effect here; it is
// display metadata only.
func EvaluateWishlistAffordability(wishlist []WishlistItem, savings Money) []WishlistItem {
	var affordable []WishlistItem
	for _, item := range wishlist {
		if item.Price.Cents <= savings.Cents {
			affordable = append(affordable, item)
		}
	}
	return affordable
}

// BudgetHealth is the budget-vs-spend alert fact.
type BudgetHealth struct {
	OverBudget bool
	Remaining  Money
}

// EvaluateBudgetHealth reports the remaining allowance for the month.
// Remaining goes negative when the budget is blown; it is never clamped.
func EvaluateBudgetHealth(totalSpent, budget Money) BudgetHealth {
	remaining := budget.Sub(totalSpent)
	return BudgetHealth{
		OverBudget: remaining.Cents < 0,
		Remaining:  remaining,
	}
}

// UpcomingPayment is the reminder fact for one subscription.
type UpcomingPayment struct {
	Subscription Subscription
	DaysUntil    int
	Urgent       bool
}

// DaysUntil is ceil((next - now) / 24h). A payment due later today
// yields 0; one already past yields a negative count.
func DaysUntil(next Date, now time.Time) int {
	return int(math.Ceil(next.Sub(now).Hours() / 24))
}

// EvaluateUpcomingSubscriptionPayments returns the subscriptions whose next
// payment falls within [0, windowDays] days of now, preserving input order.
// Payments within UrgentWindowDays are flagged for higher-severity handling.
func EvaluateUpcomingSubscriptionPayments(subs []Subscription, now time.Time, windowDays int) []UpcomingPayment {
	var upcoming []UpcomingPayment
	for _, sub := range subs {
		if sub.NextPayment.IsZero() {
			continue
		}
		days := DaysUntil(sub.NextPayment, now)
		if days < 0 || days > windowDays {
			continue
		}
		upcoming = append(upcoming, UpcomingPayment{
			Subscription: sub,
			DaysUntil:    days,
			Urgent:       days <= UrgentWindowDays,
		})
	}
	return upcoming
}

// NextPaymentAfter rolls a subscription's next payment date forward by
// whole billing cycles until it is not in the past relative to now. A date
// already in the future is returned unchanged.
func NextPaymentAfter(sub Subscription, now time.Time) Date {
	next := sub.NextPayment
	if next.IsZero() {
		return next
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for next.Before(today) {
		switch sub.Cycle {
		case Yearly:
			next = Date{Time: next.AddDate(1, 0, 0)}
		default:
			next = Date{Time: next.AddDate(0, 1, 0)}
		}
	}
	return next
}
