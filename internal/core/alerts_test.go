package core

import (
	"math"
	"testing"
	"time"
)

func TestEvaluateCategoryCap(t *testing.T) {
	cases := []struct {
		name    string
		spent   int64
		limit   int64
		status  CapStatus
		percent float64
	}{
		{"exceeded", 1200_00, 1000_00, CapExceeded, 120},
		{"exactly at limit", 1000_00, 1000_00, CapExceeded, 100},
		{"approaching", 850_00, 1000_00, CapApproaching, 85},
		{"approaching lower bound", 800_00, 1000_00, CapApproaching, 80},
		{"ok", 500_00, 1000_00, CapOK, 50},
		{"no cap set", 500_00, 0, CapUnset, 0},
		{"negative limit treated as unset", 500_00, -100, CapUnset, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := EvaluateCategoryCap("Food", Money{Cents: tc.spent}, Money{Cents: tc.limit})
			if ev.Status != tc.status {
				t.Fatalf("expected status %s, got %s", tc.status, ev.Status)
			}
			if math.Abs(ev.PercentUsed-tc.percent) > 0.001 {
				t.Fatalf("expected percent %.2f, got %.2f", tc.percent, ev.PercentUsed)
			}
		})
	}
}

func TestEvaluateOverspendCategories(t *testing.T) {
	budget := Money{Cents: 10000_00}
	totals := []CategoryAmount{
		{Category: "Travel", Amount: Money{Cents: 3100_00}},  // 31%
		{Category: "Food", Amount: Money{Cents: 3500_00}},    // 35%
		{Category: "Coffee", Amount: Money{Cents: 3000_00}},  // exactly 30%, not over
		{Category: "Books", Amount: Money{Cents: 200_00}},    // 2%
	}

	alerts := EvaluateOverspendCategories(totals, budget, OverspendThresholdPercent)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %+v", alerts)
	}
	// Sorted descending by amount.
	if alerts[0].Category != "Food" || alerts[1].Category != "Travel" {
		t.Fatalf("unexpected order: %+v", alerts)
	}
	if math.Abs(alerts[0].PercentOfBudget-35) > 0.001 {
		t.Fatalf("expected 35%%, got %.2f", alerts[0].PercentOfBudget)
	}

	if got := EvaluateOverspendCategories(totals, Money{}, OverspendThresholdPercent); got != nil {
		t.Fatalf("no budget means no overspend alerts, got %+v", got)
	}
}

func TestEvaluateWishlistAffordability(t *testing.T) {
	wishlist := []WishlistItem{
		{ID: "1", Name: "Headphones", Price: Money{Cents: 3000_00}, Priority: PriorityHigh},
		{ID: "2", Name: "Laptop", Price: Money{Cents: 6000_00}, Priority: PriorityLow},
	}

	affordable := EvaluateWishlistAffordability(wishlist, Money{Cents: 5000_00})
	if len(affordable) != 1 || affordable[0].Name != "Headphones" {
		t.Fatalf("expected only the 3000 item, got %+v", affordable)
	}

	// Exact price match is affordable.
	affordable = EvaluateWishlistAffordability(wishlist, Money{Cents: 3000_00})
	if len(affordable) != 1 {
		t.Fatalf("price equal to savings should be affordable, got %+v", affordable)
	}

	if got := EvaluateWishlistAffordability(wishlist, Money{Cents: -100}); got != nil {
		t.Fatalf("negative savings afford nothing, got %+v", got)
	}
}

func TestEvaluateBudgetHealth(t *testing.T) {
	h := EvaluateBudgetHealth(Money{Cents: 4300_00}, Money{Cents: 10000_00})
	if h.OverBudget || h.Remaining.Cents != 5700_00 {
		t.Fatalf("unexpected health: %+v", h)
	}

	h = EvaluateBudgetHealth(Money{Cents: 11000_00}, Money{Cents: 10000_00})
	if !h.OverBudget || h.Remaining.Cents != -1000_00 {
		t.Fatalf("expected over budget with remaining -100000, got %+v", h)
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		next Date
		want int
	}{
		{NewDate(2025, 9, 15), 0}, // due earlier today rounds to 0
		{NewDate(2025, 9, 16), 1},
		{NewDate(2025, 9, 22), 7},
		{NewDate(2025, 9, 14), -1},
	}
	for i, tc := range cases {
		if got := DaysUntil(tc.next, now); got != tc.want {
			t.Fatalf("case %d: expected %d, got %d", i, tc.want, got)
		}
	}
}

func TestEvaluateUpcomingSubscriptionPayments(t *testing.T) {
	now := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	subs := []Subscription{
		{ID: "a", Name: "Music", NextPayment: NewDate(2025, 9, 16)},  // 1 day, urgent
		{ID: "b", Name: "Video", NextPayment: NewDate(2025, 9, 20)},  // 5 days
		{ID: "c", Name: "Cloud", NextPayment: NewDate(2025, 9, 30)},  // outside window
		{ID: "d", Name: "Lapsed", NextPayment: NewDate(2025, 9, 10)}, // already past
		{ID: "e", Name: "NoDate"},                                    // zero date, skipped
	}

	upcoming := EvaluateUpcomingSubscriptionPayments(subs, now, UpcomingWindowDays)
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming payments, got %+v", upcoming)
	}
	if upcoming[0].Subscription.ID != "a" || !upcoming[0].Urgent || upcoming[0].DaysUntil != 1 {
		t.Fatalf("unexpected first payment: %+v", upcoming[0])
	}
	if upcoming[1].Subscription.ID != "b" || upcoming[1].Urgent {
		t.Fatalf("5 days out should not be urgent: %+v", upcoming[1])
	}

	urgentOnly := EvaluateUpcomingSubscriptionPayments(subs, now, UrgentWindowDays)
	if len(urgentOnly) != 1 || urgentOnly[0].Subscription.ID != "a" {
		t.Fatalf("expected only the 1-day payment in the urgent window, got %+v", urgentOnly)
	}
}

func TestNextPaymentAfter(t *testing.T) {
	now := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	monthly := Subscription{Cycle: Monthly, NextPayment: NewDate(2025, 7, 3)}
	if next := NextPaymentAfter(monthly, now); next.Year() != 2025 || next.Month() != 10 || next.Day() != 3 {
		t.Fatalf("expected 2025-10-03, got %v", next)
	}

	yearly := Subscription{Cycle: Yearly, NextPayment: NewDate(2024, 1, 10)}
	if next := NextPaymentAfter(yearly, now); next.Year() != 2026 || next.Month() != 1 {
		t.Fatalf("expected 2026-01-10, got %v", next)
	}

	future := Subscription{Cycle: Monthly, NextPayment: NewDate(2025, 9, 20)}
	if next := NextPaymentAfter(future, now); !next.Equal(NewDate(2025, 9, 20).Time) {
		t.Fatalf("future date should be unchanged, got %v", next)
	}
}
