// Package memory is the device-local backend: everything lives in process
// memory behind one mutex, mirroring the browser-storage mode of the
// original tracker. Reads hand out copies so callers can aggregate over a
// snapshot while writes continue.
package memory

import (
	"context"
	"sync"

	"paisa/internal/core"
	"paisa/internal/store"
)

type Store struct {
	mu            sync.Mutex
	expenses      []core.Expense
	subscriptions []core.Subscription
	wishlist      []core.WishlistItem
	caps          []core.CategoryCap
	splits        []core.SplitPayment
	feedback      []core.Feedback
	budget        core.Money
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...), nil
}

func (s *Store) ListExpensesForMonth(_ context.Context, year, month int) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if !e.Date.IsZero() && e.Date.Year() == year && e.Date.Month() == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) AddSubscription(_ context.Context, sub core.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = append(s.subscriptions, sub)
	return nil
}

func (s *Store) ListSubscriptions(_ context.Context) ([]core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Subscription(nil), s.subscriptions...), nil
}

func (s *Store) UpdateSubscriptionNextPayment(_ context.Context, id string, next core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			s.subscriptions[i].NextPayment = next
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteSubscription(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscriptions {
		if sub.ID == id {
			s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) AddWishlistItem(_ context.Context, w core.WishlistItem) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist = append(s.wishlist, w)
	return nil
}

func (s *Store) ListWishlist(_ context.Context) ([]core.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.WishlistItem(nil), s.wishlist...), nil
}

func (s *Store) DeleteWishlistItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.wishlist {
		if w.ID == id {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// UpsertCap replaces an existing cap for the same category or appends a new
// one. Category match is exact and case-sensitive, like the aggregation.
func (s *Store) UpsertCap(_ context.Context, c core.CategoryCap) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.caps {
		if s.caps[i].Category == c.Category {
			s.caps[i].Limit = c.Limit
			return nil
		}
	}
	s.caps = append(s.caps, c)
	return nil
}

func (s *Store) ListCaps(_ context.Context) ([]core.CategoryCap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CategoryCap(nil), s.caps...), nil
}

func (s *Store) AddSplitPayment(_ context.Context, p core.SplitPayment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Shares = append([]core.SplitShare(nil), p.Shares...)
	s.splits = append(s.splits, p)
	return nil
}

func (s *Store) ListSplitPayments(_ context.Context) ([]core.SplitPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SplitPayment, len(s.splits))
	for i, p := range s.splits {
		p.Shares = append([]core.SplitShare(nil), p.Shares...)
		out[i] = p
	}
	return out, nil
}

func (s *Store) DeleteSplitPayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.splits {
		if p.ID == id {
			s.splits = append(s.splits[:i], s.splits[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) SetMonthlyBudget(_ context.Context, budget core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = budget
	return nil
}

func (s *Store) MonthlyBudget(_ context.Context) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget, nil
}

func (s *Store) AddFeedback(_ context.Context, f core.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, f)
	return nil
}

func (s *Store) ListFeedback(_ context.Context) ([]core.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Feedback(nil), s.feedback...), nil
}
