package memory

import (
	"context"
	"errors"
	"testing"

	"paisa/internal/core"
	"paisa/internal/store"
)

func TestExpenseLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := core.Expense{
		ID:            "e1",
		Amount:        core.Money{Cents: 1200},
		Date:          core.NewDate(2025, 9, 10),
		Description:   "lunch",
		Category:      "Food",
		PaymentMethod: core.UPI,
	}
	if err := s.AddExpense(ctx, e); err != nil {
		t.Fatal(err)
	}

	all, err := s.ListExpenses(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected 1 expense, got %d (%v)", len(all), err)
	}

	month, err := s.ListExpensesForMonth(ctx, 2025, 9)
	if err != nil || len(month) != 1 {
		t.Fatalf("expected 1 expense for 2025-09, got %d (%v)", len(month), err)
	}
	if other, _ := s.ListExpensesForMonth(ctx, 2025, 8); len(other) != 0 {
		t.Fatalf("expected no expenses for 2025-08, got %d", len(other))
	}

	if err := s.DeleteExpense(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteExpense(ctx, "e1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	s := New()
	bad := core.Expense{Description: "no date", Amount: core.Money{Cents: 1}, Category: "x", PaymentMethod: core.Cash}
	if err := s.AddExpense(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.AddExpense(ctx, core.Expense{
		ID: "e1", Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 9, 1),
		Description: "x", Category: "Food", PaymentMethod: core.Cash,
	})

	snapshot, _ := s.ListExpenses(ctx)
	snapshot[0].Category = "Mutated"

	again, _ := s.ListExpenses(ctx)
	if again[0].Category != "Food" {
		t.Fatal("mutating a returned slice must not affect the store")
	}
}

func TestCapUpsert(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertCap(ctx, core.CategoryCap{Category: "Food", Limit: core.Money{Cents: 1000_00}}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertCap(ctx, core.CategoryCap{Category: "Food", Limit: core.Money{Cents: 2000_00}}); err != nil {
		t.Fatal(err)
	}

	caps, _ := s.ListCaps(ctx)
	if len(caps) != 1 {
		t.Fatalf("upsert should replace, got %d caps", len(caps))
	}
	if caps[0].Limit.Cents != 2000_00 {
		t.Fatalf("expected updated limit 200000, got %d", caps[0].Limit.Cents)
	}
}

func TestBudgetReplace(t *testing.T) {
	s := New()
	ctx := context.Background()

	if b, _ := s.MonthlyBudget(ctx); b.Cents != 0 {
		t.Fatalf("expected zero budget initially, got %d", b.Cents)
	}
	_ = s.SetMonthlyBudget(ctx, core.Money{Cents: 10000_00})
	_ = s.SetMonthlyBudget(ctx, core.Money{Cents: 12000_00})
	if b, _ := s.MonthlyBudget(ctx); b.Cents != 12000_00 {
		t.Fatalf("expected replaced budget 1200000, got %d", b.Cents)
	}
}

func TestSubscriptionNextPaymentUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	sub := core.Subscription{
		ID: "s1", Name: "Music", Amount: core.Money{Cents: 999},
		Cycle: core.Monthly, NextPayment: core.NewDate(2025, 9, 1), PaymentMethod: core.Card,
	}
	if err := s.AddSubscription(ctx, sub); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSubscriptionNextPayment(ctx, "s1", core.NewDate(2025, 10, 1)); err != nil {
		t.Fatal(err)
	}
	subs, _ := s.ListSubscriptions(ctx)
	if subs[0].NextPayment.Month() != 10 {
		t.Fatalf("expected next payment rolled to October, got %v", subs[0].NextPayment)
	}
	if err := s.UpdateSubscriptionNextPayment(ctx, "missing", core.NewDate(2025, 10, 1)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
