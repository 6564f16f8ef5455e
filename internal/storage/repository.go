package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"paisa/internal/core"
	"paisa/internal/store"

	_ "modernc.org/sqlite"
)

// Sync states for the hosted-mirror worker.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

const budgetKey = "monthly_budget_cents"

const dateLayout = "2006-01-02"

// SQLiteRepository implements store.Store on a local SQLite database and
// additionally tracks which expenses still need mirroring to the hosted
// ledger.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_cents, date, description, category, payment_method, recurring, sync_state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount.Cents, e.Date.Format(dateLayout), e.Description,
		e.Category, string(e.PaymentMethod), boolToInt(e.Recurring), SyncPending)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, date, description, category, payment_method, recurring
		 FROM expenses ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *SQLiteRepository) ListExpensesForMonth(ctx context.Context, year, month int) ([]core.Expense, error) {
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	endYear, endMonth := year, month+1
	if endMonth > 12 {
		endYear, endMonth = year+1, 1
	}
	end := fmt.Sprintf("%04d-%02d-01", endYear, endMonth)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, date, description, category, payment_method, recurring
		 FROM expenses WHERE date >= ? AND date < ? ORDER BY date DESC, created_at DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("query expenses for month: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, date, description, category, payment_method, recurring
		 FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(res)
}

// ListPendingSyncExpenses returns expenses not yet mirrored, oldest first.
func (r *SQLiteRepository) ListPendingSyncExpenses(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, date, description, category, payment_method, recurring
		 FROM expenses WHERE sync_state = ? ORDER BY created_at ASC LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	return r.setSyncState(ctx, id, SyncDone)
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	return r.setSyncState(ctx, id, SyncError)
}

func (r *SQLiteRepository) setSyncState(ctx context.Context, id, state string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE expenses SET sync_state = ? WHERE id = ?`, state, id)
	if err != nil {
		return fmt.Errorf("set sync state: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) AddSubscription(ctx context.Context, s core.Subscription) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, name, amount_cents, cycle, next_payment, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Amount.Cents, string(s.Cycle),
		s.NextPayment.Format(dateLayout), string(s.PaymentMethod))
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, amount_cents, cycle, next_payment, payment_method
		 FROM subscriptions ORDER BY next_payment ASC`)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []core.Subscription
	for rows.Next() {
		var (
			s           core.Subscription
			cents       int64
			cycle, next string
			method      string
		)
		if err := rows.Scan(&s.ID, &s.Name, &cents, &cycle, &next, &method); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		s.Amount = core.Money{Cents: cents}
		s.Cycle = core.BillingCycle(cycle)
		s.NextPayment = parseDate(next)
		s.PaymentMethod = core.PaymentMethod(method)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SQLiteRepository) UpdateSubscriptionNextPayment(ctx context.Context, id string, next core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET next_payment = ? WHERE id = ?`,
		next.Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("update subscription next payment: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) DeleteSubscription(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) AddWishlistItem(ctx context.Context, w core.WishlistItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wishlist_items (id, name, price_cents, priority) VALUES (?, ?, ?, ?)`,
		w.ID, w.Name, w.Price.Cents, string(w.Priority))
	if err != nil {
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListWishlist(ctx context.Context) ([]core.WishlistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price_cents, priority FROM wishlist_items ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	var items []core.WishlistItem
	for rows.Next() {
		var (
			w        core.WishlistItem
			cents    int64
			priority string
		)
		if err := rows.Scan(&w.ID, &w.Name, &cents, &priority); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		w.Price = core.Money{Cents: cents}
		w.Priority = core.Priority(priority)
		items = append(items, w)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) DeleteWishlistItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) UpsertCap(ctx context.Context, c core.CategoryCap) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO category_caps (category, limit_cents) VALUES (?, ?)
		 ON CONFLICT(category) DO UPDATE SET limit_cents = excluded.limit_cents`,
		c.Category, c.Limit.Cents)
	if err != nil {
		return fmt.Errorf("upsert category cap: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListCaps(ctx context.Context) ([]core.CategoryCap, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, limit_cents FROM category_caps ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query category caps: %w", err)
	}
	defer rows.Close()

	var caps []core.CategoryCap
	for rows.Next() {
		var (
			c     core.CategoryCap
			cents int64
		)
		if err := rows.Scan(&c.Category, &cents); err != nil {
			return nil, fmt.Errorf("scan category cap: %w", err)
		}
		c.Limit = core.Money{Cents: cents}
		caps = append(caps, c)
	}
	return caps, rows.Err()
}

type shareRecord struct {
	Friend    string `json:"friend"`
	OwedCents int64  `json:"owed_cents"`
}

func (r *SQLiteRepository) AddSplitPayment(ctx context.Context, p core.SplitPayment) error {
	records := make([]shareRecord, len(p.Shares))
	for i, sh := range p.Shares {
		records[i] = shareRecord{Friend: sh.Friend, OwedCents: sh.Owed.Cents}
	}
	shares, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal split shares: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO split_payments (id, name, total_cents, shares, date) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Total.Cents, string(shares), p.Date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("insert split payment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSplitPayments(ctx context.Context) ([]core.SplitPayment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, total_cents, shares, date FROM split_payments ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query split payments: %w", err)
	}
	defer rows.Close()

	var payments []core.SplitPayment
	for rows.Next() {
		var (
			p           core.SplitPayment
			cents       int64
			shares, day string
		)
		if err := rows.Scan(&p.ID, &p.Name, &cents, &shares, &day); err != nil {
			return nil, fmt.Errorf("scan split payment: %w", err)
		}
		var records []shareRecord
		if err := json.Unmarshal([]byte(shares), &records); err != nil {
			return nil, fmt.Errorf("unmarshal split shares: %w", err)
		}
		p.Total = core.Money{Cents: cents}
		p.Date = parseDate(day)
		p.Shares = make([]core.SplitShare, len(records))
		for i, rec := range records {
			p.Shares[i] = core.SplitShare{Friend: rec.Friend, Owed: core.Money{Cents: rec.OwedCents}}
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) DeleteSplitPayment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM split_payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete split payment: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) SetMonthlyBudget(ctx context.Context, budget core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		budgetKey, strconv.FormatInt(budget.Cents, 10))
	if err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MonthlyBudget(ctx context.Context) (core.Money, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, budgetKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil // no budget configured yet
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get monthly budget: %w", err)
	}
	cents, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return core.Money{}, fmt.Errorf("parse stored budget %q: %w", value, err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) AddFeedback(ctx context.Context, f core.Feedback) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (id, message, rating, date) VALUES (?, ?, ?, ?)`,
		f.ID, f.Message, f.Rating, f.Date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListFeedback(ctx context.Context) ([]core.Feedback, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, message, rating, date FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var items []core.Feedback
	for rows.Next() {
		var (
			f   core.Feedback
			day string
		)
		if err := rows.Scan(&f.ID, &f.Message, &f.Rating, &day); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		f.Date = parseDate(day)
		items = append(items, f)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		cents     int64
		day       string
		method    string
		recurring int
	)
	if err := row.Scan(&e.ID, &cents, &day, &e.Description, &e.Category, &method, &recurring); err != nil {
		return core.Expense{}, err
	}
	e.Amount = core.Money{Cents: cents}
	e.Date = parseDate(day)
	e.PaymentMethod = core.PaymentMethod(method)
	e.Recurring = recurring != 0
	return e, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// parseDate tolerates malformed stored dates by returning the zero Date;
// the aggregation core excludes those records instead of failing.
func parseDate(s string) core.Date {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
