package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly BillingCycle = "monthly"
	Yearly  BillingCycle = "yearly"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	Cash PaymentMethod = "cash"
	UPI  PaymentMethod = "upi"
	Card PaymentMethod = "card"
)

type (
	BillingCycle  string
	Priority      string
	PaymentMethod string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID            string
		Amount        Money
		Date          Date
		Description   string
		Category      string
		PaymentMethod PaymentMethod
		Recurring     bool // informational only, does not drive re-billing
	}

	Subscription struct {
		ID            string
		Name          string
		Amount        Money
		Cycle         BillingCycle
		NextPayment   Date
		PaymentMethod PaymentMethod
	}

	WishlistItem struct {
		ID       string
		Name     string
		Price    Money
		Priority Priority // display-only, no effect on affordability
	}

	// CategoryCap is a per-category monthly spending ceiling.
	// A limit <= 0 means no limit is set.
	CategoryCap struct {
		Category string
		Limit    Money
	}

	SplitShare struct {
		Friend string
		Owed   Money
	}

	// SplitPayment is a read-only summary entity; it is never aggregated
	// into personal spend totals.
	SplitPayment struct {
		ID     string
		Name   string
		Total  Money
		Shares []SplitShare
		Date   Date
	}

	Feedback struct {
		ID      string
		Message string
		Rating  int
		Date    Date
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidCycle     = errors.New("invalid billing cycle")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrEmptyMessage     = errors.New("empty feedback message")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the calendar month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (p PaymentMethod) Validate() error {
	switch p {
	case Cash, UPI, Card:
		return nil
	default:
		return errors.New("invalid payment method")
	}
}

func (c BillingCycle) Validate() error {
	switch c {
	case Monthly, Yearly:
		return nil
	default:
		return ErrInvalidCycle
	}
}

func (p Priority) Validate() error {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	default:
		return ErrInvalidPriority
	}
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.PaymentMethod.Validate()
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if err := s.Cycle.Validate(); err != nil {
		return err
	}
	if err := s.NextPayment.Validate(); err != nil {
		return errors.New("invalid next payment date: " + err.Error())
	}
	return s.PaymentMethod.Validate()
}

func (w WishlistItem) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if err := w.Price.Validate(); err != nil {
		return err
	}
	return w.Priority.Validate()
}

func (c CategoryCap) Validate() error {
	if strings.TrimSpace(c.Category) == "" {
		return ErrEmptyCategory
	}
	// A non-positive limit is stored as "no limit"; nothing else to check.
	return nil
}

func (p SplitPayment) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if err := p.Total.Validate(); err != nil {
		return err
	}
	if len(p.Shares) == 0 {
		return errors.New("split payment needs at least one share")
	}
	for _, sh := range p.Shares {
		if strings.TrimSpace(sh.Friend) == "" {
			return errors.New("empty friend name in split share")
		}
		if sh.Owed.Cents < 0 {
			return ErrInvalidAmount
		}
	}
	return p.Date.Validate()
}

func (f Feedback) Validate() error {
	if len(strings.TrimSpace(f.Message)) == 0 {
		return ErrEmptyMessage
	}
	if f.Rating < 1 || f.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
