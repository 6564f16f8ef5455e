package http

import (
	"paisa/internal/core"
	"paisa/internal/services"
)

// Wire types. Money fields marshal as plain decimal numbers; dates are
// YYYY-MM-DD strings.

type expenseDTO struct {
	ID            string     `json:"id,omitempty"`
	Amount        core.Money `json:"amount"`
	Date          string     `json:"date"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	PaymentMethod string     `json:"payment_method"`
	Recurring     bool       `json:"recurring,omitempty"`
}

func (d expenseDTO) toCore() (core.Expense, error) {
	date, err := parseDate(d.Date)
	if err != nil {
		return core.Expense{}, core.ErrInvalidDate
	}
	return core.Expense{
		ID:            d.ID,
		Amount:        d.Amount,
		Date:          date,
		Description:   sanitizeInput(d.Description),
		Category:      sanitizeInput(d.Category),
		PaymentMethod: core.PaymentMethod(d.PaymentMethod),
		Recurring:     d.Recurring,
	}, nil
}

func expenseFromCore(e core.Expense) expenseDTO {
	return expenseDTO{
		ID:            e.ID,
		Amount:        e.Amount,
		Date:          e.Date.Format("2006-01-02"),
		Description:   e.Description,
		Category:      e.Category,
		PaymentMethod: string(e.PaymentMethod),
		Recurring:     e.Recurring,
	}
}

func expensesFromCore(in []core.Expense) []expenseDTO {
	out := make([]expenseDTO, 0, len(in))
	for _, e := range in {
		out = append(out, expenseFromCore(e))
	}
	return out
}

type subscriptionDTO struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name"`
	Amount        core.Money `json:"amount"`
	Cycle         string     `json:"cycle"`
	NextPayment   string     `json:"next_payment"`
	PaymentMethod string     `json:"payment_method"`
}

func (d subscriptionDTO) toCore() (core.Subscription, error) {
	next, err := parseDate(d.NextPayment)
	if err != nil {
		return core.Subscription{}, core.ErrInvalidDate
	}
	return core.Subscription{
		ID:            d.ID,
		Name:          sanitizeInput(d.Name),
		Amount:        d.Amount,
		Cycle:         core.BillingCycle(d.Cycle),
		NextPayment:   next,
		PaymentMethod: core.PaymentMethod(d.PaymentMethod),
	}, nil
}

func subscriptionFromCore(s core.Subscription) subscriptionDTO {
	return subscriptionDTO{
		ID:            s.ID,
		Name:          s.Name,
		Amount:        s.Amount,
		Cycle:         string(s.Cycle),
		NextPayment:   s.NextPayment.Format("2006-01-02"),
		PaymentMethod: string(s.PaymentMethod),
	}
}

type upcomingPaymentDTO struct {
	Subscription subscriptionDTO `json:"subscription"`
	DaysUntil    int             `json:"days_until"`
	Urgent       bool            `json:"urgent"`
}

type wishlistItemDTO struct {
	ID       string     `json:"id,omitempty"`
	Name     string     `json:"name"`
	Price    core.Money `json:"price"`
	Priority string     `json:"priority"`
}

func (d wishlistItemDTO) toCore() core.WishlistItem {
	return core.WishlistItem{
		ID:       d.ID,
		Name:     sanitizeInput(d.Name),
		Price:    d.Price,
		Priority: core.Priority(d.Priority),
	}
}

func wishlistItemFromCore(w core.WishlistItem) wishlistItemDTO {
	return wishlistItemDTO{
		ID:       w.ID,
		Name:     w.Name,
		Price:    w.Price,
		Priority: string(w.Priority),
	}
}

func wishlistFromCore(in []core.WishlistItem) []wishlistItemDTO {
	out := make([]wishlistItemDTO, 0, len(in))
	for _, w := range in {
		out = append(out, wishlistItemFromCore(w))
	}
	return out
}

type capDTO struct {
	Category string     `json:"category"`
	Limit    core.Money `json:"limit"`
}

type splitShareDTO struct {
	Friend string     `json:"friend"`
	Owed   core.Money `json:"owed"`
}

type splitPaymentDTO struct {
	ID     string          `json:"id,omitempty"`
	Name   string          `json:"name"`
	Total  core.Money      `json:"total"`
	Shares []splitShareDTO `json:"shares"`
	Date   string          `json:"date"`
}

func (d splitPaymentDTO) toCore() (core.SplitPayment, error) {
	date, err := parseDate(d.Date)
	if err != nil {
		return core.SplitPayment{}, core.ErrInvalidDate
	}
	shares := make([]core.SplitShare, 0, len(d.Shares))
	for _, sh := range d.Shares {
		shares = append(shares, core.SplitShare{
			Friend: sanitizeInput(sh.Friend),
			Owed:   sh.Owed,
		})
	}
	return core.SplitPayment{
		ID:     d.ID,
		Name:   sanitizeInput(d.Name),
		Total:  d.Total,
		Shares: shares,
		Date:   date,
	}, nil
}

func splitFromCore(p core.SplitPayment) splitPaymentDTO {
	shares := make([]splitShareDTO, 0, len(p.Shares))
	for _, sh := range p.Shares {
		shares = append(shares, splitShareDTO{Friend: sh.Friend, Owed: sh.Owed})
	}
	return splitPaymentDTO{
		ID:     p.ID,
		Name:   p.Name,
		Total:  p.Total,
		Shares: shares,
		Date:   p.Date.Format("2006-01-02"),
	}
}

type budgetDTO struct {
	Budget core.Money `json:"budget"`
}

type feedbackDTO struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
	Date    string `json:"date,omitempty"`
}

type advisorRequestDTO struct {
	Message string `json:"message"`
}

type advisorResponseDTO struct {
	Reply   string `json:"reply"`
	Matched bool   `json:"matched"`
}

type categoryAmountDTO struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
}

type capEvaluationDTO struct {
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	PercentUsed float64    `json:"percent_used"`
	Spent       core.Money `json:"spent"`
	Limit       core.Money `json:"limit"`
}

type overspendDTO struct {
	Category        string     `json:"category"`
	Amount          core.Money `json:"amount"`
	PercentOfBudget float64    `json:"percent_of_budget"`
}

type weekdayAmountDTO struct {
	Weekday string     `json:"weekday"`
	Amount  core.Money `json:"amount"`
}

type summaryDTO struct {
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	Total         core.Money          `json:"total"`
	ByCategory    []categoryAmountDTO `json:"by_category"`
	PreviousTotal core.Money          `json:"previous_total"`
	DeltaPercent  float64             `json:"delta_percent"`
	Budget        core.Money          `json:"budget"`
	Savings       core.Money          `json:"savings"`
	OverBudget    bool                `json:"over_budget"`
	Remaining     core.Money          `json:"remaining"`
	Caps          []capEvaluationDTO  `json:"caps"`
	Overspend     []overspendDTO      `json:"overspend"`
	WeeklyTrend   []weekdayAmountDTO  `json:"weekly_trend"`
	Affordable    []wishlistItemDTO   `json:"affordable"`
}

func summaryFromService(s *services.MonthSummary) summaryDTO {
	dto := summaryDTO{
		Year:          s.Overview.Year,
		Month:         s.Overview.Month,
		Total:         s.Overview.Total,
		ByCategory:    make([]categoryAmountDTO, 0, len(s.Overview.ByCategory)),
		PreviousTotal: s.PreviousTotal,
		DeltaPercent:  s.DeltaPercent,
		Budget:        s.Budget,
		Savings:       s.Savings,
		OverBudget:    s.Health.OverBudget,
		Remaining:     s.Health.Remaining,
		Caps:          make([]capEvaluationDTO, 0, len(s.Caps)),
		Overspend:     make([]overspendDTO, 0, len(s.Overspend)),
		WeeklyTrend:   make([]weekdayAmountDTO, 0, len(s.WeeklyTrend)),
		Affordable:    wishlistFromCore(s.Affordable),
	}
	for _, c := range s.Overview.ByCategory {
		dto.ByCategory = append(dto.ByCategory, categoryAmountDTO{Category: c.Category, Amount: c.Amount})
	}
	for _, c := range s.Caps {
		dto.Caps = append(dto.Caps, capEvaluationDTO{
			Category:    c.Category,
			Status:      string(c.Status),
			PercentUsed: c.PercentUsed,
			Spent:       c.Spent,
			Limit:       c.Limit,
		})
	}
	for _, o := range s.Overspend {
		dto.Overspend = append(dto.Overspend, overspendDTO{
			Category:        o.Category,
			Amount:          o.Amount,
			PercentOfBudget: o.PercentOfBudget,
		})
	}
	for _, wk := range s.WeeklyTrend {
		dto.WeeklyTrend = append(dto.WeeklyTrend, weekdayAmountDTO{Weekday: wk.Weekday, Amount: wk.Amount})
	}
	return dto
}

type dayAmountDTO struct {
	Day    string     `json:"day"`
	Amount core.Money `json:"amount"`
}

type weekReportDTO struct {
	Total       core.Money        `json:"total"`
	ByDay       []dayAmountDTO    `json:"by_day"`
	BestDay     dayAmountDTO      `json:"best_day"`
	WorstDay    dayAmountDTO      `json:"worst_day"`
	TopCategory categoryAmountDTO `json:"top_category"`
}

func weekReportFromCore(r core.WeekReport) weekReportDTO {
	dto := weekReportDTO{
		Total:       r.Total,
		ByDay:       make([]dayAmountDTO, 0, len(r.ByDay)),
		BestDay:     dayAmountDTO{Day: r.BestDay.Day, Amount: r.BestDay.Amount},
		WorstDay:    dayAmountDTO{Day: r.WorstDay.Day, Amount: r.WorstDay.Amount},
		TopCategory: categoryAmountDTO{Category: r.TopCategory.Category, Amount: r.TopCategory.Amount},
	}
	for _, d := range r.ByDay {
		dto.ByDay = append(dto.ByDay, dayAmountDTO{Day: d.Day, Amount: d.Amount})
	}
	return dto
}
