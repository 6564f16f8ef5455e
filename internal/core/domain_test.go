package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:          NewDate(2025, 1, 1),
		Description:   "groceries",
		Amount:        Money{Cents: 100},
		Category:      "Food",
		PaymentMethod: UPI,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Description: "a", Amount: Money{Cents: 1}, Category: "c", PaymentMethod: Cash}, // zero date
		{Date: NewDate(2025, 1, 1), Description: "", Amount: Money{Cents: 1}, Category: "c", PaymentMethod: Cash},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}, Category: "c", PaymentMethod: Cash},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Category: "", PaymentMethod: Cash},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Category: "c", PaymentMethod: "cheque"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSubscriptionValidate(t *testing.T) {
	good := Subscription{
		Name:          "Music",
		Amount:        Money{Cents: 999},
		Cycle:         Monthly,
		NextPayment:   NewDate(2025, 10, 1),
		PaymentMethod: Card,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Cycle = "weekly"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for unknown cycle")
	}

	bad = good
	bad.NextPayment = Date{}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero next payment date")
	}
}

func TestWishlistItemValidate(t *testing.T) {
	good := WishlistItem{Name: "Laptop", Price: Money{Cents: 100000}, Priority: PriorityHigh}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (WishlistItem{Name: "", Price: Money{Cents: 1}, Priority: PriorityLow}).Validate(); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := (WishlistItem{Name: "x", Price: Money{Cents: 1}, Priority: "urgent"}).Validate(); err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestSplitPaymentValidate(t *testing.T) {
	good := SplitPayment{
		Name:  "Dinner",
		Total: Money{Cents: 3000},
		Shares: []SplitShare{
			{Friend: "Asha", Owed: Money{Cents: 1500}},
			{Friend: "Ravi", Owed: Money{Cents: 1500}},
		},
		Date: NewDate(2025, 9, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Shares = nil
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for missing shares")
	}
}

func TestCategoryCapValidate(t *testing.T) {
	if err := (CategoryCap{Category: "Food", Limit: Money{Cents: 0}}).Validate(); err != nil {
		t.Fatalf("zero limit means no cap, should validate: %v", err)
	}
	if err := (CategoryCap{Category: ""}).Validate(); err == nil {
		t.Fatal("expected error for empty category")
	}
}
