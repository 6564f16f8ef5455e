// Package store defines the persistence ports for the tracker's entities.
// The aggregation core never touches these; callers load records through a
// Store and hand plain slices to the core.
package store

import (
	"context"
	"errors"

	"paisa/internal/core"
)

// ErrNotFound is returned when a record with the given ID does not exist.
var ErrNotFound = errors.New("record not found")

type (
	ExpenseStore interface {
		AddExpense(ctx context.Context, e core.Expense) error
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		// ListExpensesForMonth returns expenses in the given calendar bucket.
		ListExpensesForMonth(ctx context.Context, year, month int) ([]core.Expense, error)
		DeleteExpense(ctx context.Context, id string) error
	}

	SubscriptionStore interface {
		AddSubscription(ctx context.Context, s core.Subscription) error
		ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
		UpdateSubscriptionNextPayment(ctx context.Context, id string, next core.Date) error
		DeleteSubscription(ctx context.Context, id string) error
	}

	WishlistStore interface {
		AddWishlistItem(ctx context.Context, w core.WishlistItem) error
		ListWishlist(ctx context.Context) ([]core.WishlistItem, error)
		DeleteWishlistItem(ctx context.Context, id string) error
	}

	// CapStore upserts by category name; caps are the only entity mutated
	// in place.
	CapStore interface {
		UpsertCap(ctx context.Context, c core.CategoryCap) error
		ListCaps(ctx context.Context) ([]core.CategoryCap, error)
	}

	SplitStore interface {
		AddSplitPayment(ctx context.Context, p core.SplitPayment) error
		ListSplitPayments(ctx context.Context) ([]core.SplitPayment, error)
		DeleteSplitPayment(ctx context.Context, id string) error
	}

	// BudgetStore holds the single monthly allowance value (replace on write).
	BudgetStore interface {
		SetMonthlyBudget(ctx context.Context, budget core.Money) error
		MonthlyBudget(ctx context.Context) (core.Money, error)
	}

	FeedbackStore interface {
		AddFeedback(ctx context.Context, f core.Feedback) error
		ListFeedback(ctx context.Context) ([]core.Feedback, error)
	}
)

// Store is the full persistence surface a backend must provide.
type Store interface {
	ExpenseStore
	SubscriptionStore
	WishlistStore
	CapStore
	SplitStore
	BudgetStore
	FeedbackStore
}
