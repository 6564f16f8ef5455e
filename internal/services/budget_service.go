package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"paisa/internal/amqp"
	"paisa/internal/core"
	"paisa/internal/store"
)

// AlertPublisher is the slice of the AMQP client the service needs. A nil
// publisher disables messaging without changing any ledger behavior.
type AlertPublisher interface {
	PublishExpenseSync(ctx context.Context, id string) error
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// BudgetService orchestrates ledger writes, alert evaluation, and AMQP
// publishing. All evaluation is delegated to the core package; this layer
// only loads records, calls the evaluators, and fans out the results.
type BudgetService struct {
	store     store.Store
	publisher AlertPublisher
	now       func() time.Time
}

func NewBudgetService(st store.Store, publisher AlertPublisher) *BudgetService {
	return &BudgetService{
		store:     st,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock overrides the reference clock. Tests use it to pin "today".
func (s *BudgetService) WithClock(now func() time.Time) *BudgetService {
	s.now = now
	return s
}

// ExpenseAlerts carries the alert facts produced by a single expense write.
// Affordable lists the wishlist items still covered by the savings left
// after the new expense.
type ExpenseAlerts struct {
	Cap        *core.CapEvaluation
	Health     core.BudgetHealth
	Overspend  []core.OverspendAlert
	Affordable []core.WishlistItem
}

// AddExpense validates and persists an expense, then re-evaluates the
// current month including the new record. The expense is always kept;
// cap and budget breaches produce alerts, never rejections.
func (s *BudgetService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, *ExpenseAlerts, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, nil, err
	}

	if err := s.store.AddExpense(ctx, e); err != nil {
		return core.Expense{}, nil, fmt.Errorf("save expense: %w", err)
	}

	s.publishExpenseSync(ctx, e.ID)

	alerts, err := s.evaluateExpense(ctx, e)
	if err != nil {
		// The expense is saved; a failed evaluation must not undo that.
		slog.ErrorContext(ctx, "Failed to evaluate alerts for new expense",
			"id", e.ID, "error", err)
		return e, nil, nil
	}

	s.publishExpenseAlerts(ctx, e, alerts)

	return e, alerts, nil
}

// evaluateExpense runs the cap, budget health, overspend, and wishlist
// affordability checks for the month the new expense landed in. The month
// is re-read after the write, so the new expense counts toward every
// check.
func (s *BudgetService) evaluateExpense(ctx context.Context, e core.Expense) (*ExpenseAlerts, error) {
	now := s.now()

	expenses, err := s.store.ListExpensesForMonth(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return nil, fmt.Errorf("list month expenses: %w", err)
	}

	budget, err := s.store.MonthlyBudget(ctx)
	if err != nil {
		return nil, fmt.Errorf("load monthly budget: %w", err)
	}

	totals := core.CategoryTotalsForMonth(expenses, now.Year(), int(now.Month()))
	total := core.TotalForMonth(expenses, now.Year(), int(now.Month()))

	alerts := &ExpenseAlerts{
		Health:    core.EvaluateBudgetHealth(total, budget),
		Overspend: core.EvaluateOverspendCategories(totals, budget, core.OverspendThresholdPercent),
	}

	caps, err := s.store.ListCaps(ctx)
	if err != nil {
		return nil, fmt.Errorf("list caps: %w", err)
	}
	for _, c := range caps {
		if c.Category != e.Category {
			continue
		}
		spent := core.Money{}
		for _, t := range totals {
			if t.Category == e.Category {
				spent = t.Amount
				break
			}
		}
		eval := core.EvaluateCategoryCap(e.Category, spent, c.Limit)
		alerts.Cap = &eval
		break
	}

	wishlist, err := s.store.ListWishlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	alerts.Affordable = core.EvaluateWishlistAffordability(wishlist, core.Savings(budget, total))

	return alerts, nil
}

func (s *BudgetService) publishExpenseAlerts(ctx context.Context, e core.Expense, alerts *ExpenseAlerts) {
	if s.publisher == nil || alerts == nil {
		return
	}

	if eval := alerts.Cap; eval != nil && (eval.Status == core.CapApproaching || eval.Status == core.CapExceeded) {
		severity := amqp.SeverityWarning
		if eval.Status == core.CapExceeded {
			severity = amqp.SeverityCritical
		}
		s.publishAlert(ctx, amqp.NewAlertMessage(amqp.AlertCategoryCap, severity, eval.Category, map[string]string{
			"status":       string(eval.Status),
			"percent_used": formatPercent(eval.PercentUsed),
			"spent":        eval.Spent.String(),
			"limit":        eval.Limit.String(),
		}))
	}

	if alerts.Health.OverBudget {
		s.publishAlert(ctx, amqp.NewAlertMessage(amqp.AlertBudget, amqp.SeverityCritical, "monthly budget", map[string]string{
			"remaining": alerts.Health.Remaining.String(),
		}))
	}

	for _, o := range alerts.Overspend {
		s.publishAlert(ctx, amqp.NewAlertMessage(amqp.AlertOverspend, amqp.SeverityWarning, o.Category, map[string]string{
			"amount":            o.Amount.String(),
			"percent_of_budget": formatPercent(o.PercentOfBudget),
		}))
	}

	for _, item := range alerts.Affordable {
		s.publishAlert(ctx, amqp.NewAlertMessage(amqp.AlertWishlist, amqp.SeverityInfo, item.Name, map[string]string{
			"item_id":  item.ID,
			"price":    item.Price.String(),
			"priority": string(item.Priority),
		}))
	}
}

func (s *BudgetService) publishAlert(ctx context.Context, msg *amqp.AlertMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAlert(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish alert",
			"kind", msg.Kind, "subject", msg.Subject, "error", err)
	}
}

func (s *BudgetService) publishExpenseSync(ctx context.Context, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
	}
}

func (s *BudgetService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *BudgetService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *BudgetService) AddSubscription(ctx context.Context, sub core.Subscription) (core.Subscription, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}
	if err := s.store.AddSubscription(ctx, sub); err != nil {
		return core.Subscription{}, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}

func (s *BudgetService) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	return s.store.ListSubscriptions(ctx)
}

func (s *BudgetService) DeleteSubscription(ctx context.Context, id string) error {
	if err := s.store.DeleteSubscription(ctx, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// UpcomingSubscriptionPayments returns the reminder facts for payments
// due within the standard look-ahead window.
func (s *BudgetService) UpcomingSubscriptionPayments(ctx context.Context) ([]core.UpcomingPayment, error) {
	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return core.EvaluateUpcomingSubscriptionPayments(subs, s.now(), core.UpcomingWindowDays), nil
}

// AddWishlistItem saves the item and reports whether the current month's
// savings already cover its price. An affordability check failure only
// loses the flag, never the write.
func (s *BudgetService) AddWishlistItem(ctx context.Context, item core.WishlistItem) (core.WishlistItem, bool, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := item.Validate(); err != nil {
		return core.WishlistItem{}, false, err
	}
	if err := s.store.AddWishlistItem(ctx, item); err != nil {
		return core.WishlistItem{}, false, fmt.Errorf("save wishlist item: %w", err)
	}

	affordable := false
	if savings, err := s.currentSavings(ctx, s.now()); err != nil {
		slog.ErrorContext(ctx, "Failed to evaluate wishlist affordability",
			"id", item.ID, "error", err)
	} else {
		affordable = item.Price.Cents <= savings.Cents
	}
	return item, affordable, nil
}

func (s *BudgetService) ListWishlist(ctx context.Context) ([]core.WishlistItem, error) {
	return s.store.ListWishlist(ctx)
}

func (s *BudgetService) DeleteWishlistItem(ctx context.Context, id string) error {
	if err := s.store.DeleteWishlistItem(ctx, id); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}

// AffordableWishlist returns the wishlist items whose price fits in the
// current month's remaining savings.
func (s *BudgetService) AffordableWishlist(ctx context.Context) ([]core.WishlistItem, error) {
	now := s.now()

	wishlist, err := s.store.ListWishlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	savings, err := s.currentSavings(ctx, now)
	if err != nil {
		return nil, err
	}

	return core.EvaluateWishlistAffordability(wishlist, savings), nil
}

func (s *BudgetService) currentSavings(ctx context.Context, now time.Time) (core.Money, error) {
	expenses, err := s.store.ListExpensesForMonth(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return core.Money{}, fmt.Errorf("list month expenses: %w", err)
	}
	budget, err := s.store.MonthlyBudget(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("load monthly budget: %w", err)
	}
	total := core.TotalForMonth(expenses, now.Year(), int(now.Month()))
	return core.Savings(budget, total), nil
}

func (s *BudgetService) SetCategoryCap(ctx context.Context, cap core.CategoryCap) error {
	if err := cap.Validate(); err != nil {
		return err
	}
	if err := s.store.UpsertCap(ctx, cap); err != nil {
		return fmt.Errorf("upsert cap: %w", err)
	}
	return nil
}

func (s *BudgetService) ListCaps(ctx context.Context) ([]core.CategoryCap, error) {
	return s.store.ListCaps(ctx)
}

func (s *BudgetService) SetMonthlyBudget(ctx context.Context, budget core.Money) error {
	if budget.Cents < 0 {
		return core.ErrInvalidAmount
	}
	if err := s.store.SetMonthlyBudget(ctx, budget); err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	return nil
}

func (s *BudgetService) MonthlyBudget(ctx context.Context) (core.Money, error) {
	return s.store.MonthlyBudget(ctx)
}

func (s *BudgetService) AddSplitPayment(ctx context.Context, split core.SplitPayment) (core.SplitPayment, error) {
	if split.ID == "" {
		split.ID = uuid.NewString()
	}
	if err := split.Validate(); err != nil {
		return core.SplitPayment{}, err
	}
	if err := s.store.AddSplitPayment(ctx, split); err != nil {
		return core.SplitPayment{}, fmt.Errorf("save split payment: %w", err)
	}
	return split, nil
}

func (s *BudgetService) ListSplitPayments(ctx context.Context) ([]core.SplitPayment, error) {
	return s.store.ListSplitPayments(ctx)
}

func (s *BudgetService) DeleteSplitPayment(ctx context.Context, id string) error {
	if err := s.store.DeleteSplitPayment(ctx, id); err != nil {
		return fmt.Errorf("delete split payment: %w", err)
	}
	return nil
}

func (s *BudgetService) AddFeedback(ctx context.Context, fb core.Feedback) (core.Feedback, error) {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.Date.IsZero() {
		now := s.now()
		fb.Date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}
	if err := fb.Validate(); err != nil {
		return core.Feedback{}, err
	}
	if err := s.store.AddFeedback(ctx, fb); err != nil {
		return core.Feedback{}, fmt.Errorf("save feedback: %w", err)
	}
	return fb, nil
}

func (s *BudgetService) ListFeedback(ctx context.Context) ([]core.Feedback, error) {
	return s.store.ListFeedback(ctx)
}

// MonthSummary is the full dashboard payload for one calendar month.
type MonthSummary struct {
	Overview      core.MonthOverview
	PreviousTotal core.Money
	DeltaPercent  float64
	Budget        core.Money
	Savings       core.Money
	Health        core.BudgetHealth
	Caps          []core.CapEvaluation
	Overspend     []core.OverspendAlert
	WeeklyTrend   []core.WeekdayAmount
	Affordable    []core.WishlistItem
}

// MonthSummary assembles every evaluator's output for the given month in
// one pass over the ledger.
func (s *BudgetService) MonthSummary(ctx context.Context, year, month int) (*MonthSummary, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	budget, err := s.store.MonthlyBudget(ctx)
	if err != nil {
		return nil, fmt.Errorf("load monthly budget: %w", err)
	}

	overview := core.Overview(expenses, year, month)

	prevYear, prevMonth := core.PreviousMonth(year, month)
	previousTotal := core.TotalForMonth(expenses, prevYear, prevMonth)

	summary := &MonthSummary{
		Overview:      overview,
		PreviousTotal: previousTotal,
		DeltaPercent:  core.MonthOverMonthDelta(overview.Total, previousTotal),
		Budget:        budget,
		Savings:       core.Savings(budget, overview.Total),
		Health:        core.EvaluateBudgetHealth(overview.Total, budget),
		Overspend:     core.EvaluateOverspendCategories(overview.ByCategory, budget, core.OverspendThresholdPercent),
		WeeklyTrend:   core.WeeklyTrend(expenses, year, month),
	}

	caps, err := s.store.ListCaps(ctx)
	if err != nil {
		return nil, fmt.Errorf("list caps: %w", err)
	}
	for _, c := range caps {
		spent := core.Money{}
		for _, t := range overview.ByCategory {
			if t.Category == c.Category {
				spent = t.Amount
				break
			}
		}
		summary.Caps = append(summary.Caps, core.EvaluateCategoryCap(c.Category, spent, c.Limit))
	}

	wishlist, err := s.store.ListWishlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	summary.Affordable = core.EvaluateWishlistAffordability(wishlist, summary.Savings)

	return summary, nil
}

// WeeklyReport summarizes the trailing seven-day window ending now.
func (s *BudgetService) WeeklyReport(ctx context.Context) (core.WeekReport, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return core.WeekReport{}, fmt.Errorf("list expenses: %w", err)
	}
	return core.LastSevenDays(expenses, s.now()), nil
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
