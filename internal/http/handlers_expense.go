package http

import (
	"context"
	"net/http"
	"time"

	"paisa/internal/services"
)

const handlerTimeout = 5 * time.Second

type expenseAlertsDTO struct {
	Cap        *capEvaluationDTO `json:"cap,omitempty"`
	OverBudget bool              `json:"over_budget"`
	Remaining  string            `json:"remaining"`
	Overspend  []overspendDTO    `json:"overspend,omitempty"`
	Affordable []wishlistItemDTO `json:"affordable,omitempty"`
}

type createExpenseResponse struct {
	Expense expenseDTO       `json:"expense"`
	Alerts  expenseAlertsDTO `json:"alerts"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		expenses, err := s.budget.ListExpenses(ctx)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, expensesFromCore(expenses))

	case http.MethodPost:
		var dto expenseDTO
		if err := decodeJSON(r, &dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		expense, err := dto.toCore()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		saved, alerts, err := s.budget.AddExpense(ctx, expense)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.invalidateSummaries()

		s.structLog.LogExpenseCreated(ctx, saved.ID, saved.Description, saved.Category, saved.Amount.Cents)

		writeJSON(w, http.StatusCreated, createExpenseResponse{
			Expense: expenseFromCore(saved),
			Alerts:  expenseAlertsFromService(alerts),
		})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id := pathID(r, "/api/expenses/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	if err := s.budget.DeleteExpense(ctx, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummaries()

	writeJSON(w, http.StatusNoContent, nil)
}

func expenseAlertsFromService(alerts *services.ExpenseAlerts) expenseAlertsDTO {
	if alerts == nil {
		return expenseAlertsDTO{}
	}

	dto := expenseAlertsDTO{
		OverBudget: alerts.Health.OverBudget,
		Remaining:  alerts.Health.Remaining.String(),
	}
	if alerts.Cap != nil {
		dto.Cap = &capEvaluationDTO{
			Category:    alerts.Cap.Category,
			Status:      string(alerts.Cap.Status),
			PercentUsed: alerts.Cap.PercentUsed,
			Spent:       alerts.Cap.Spent,
			Limit:       alerts.Cap.Limit,
		}
	}
	for _, o := range alerts.Overspend {
		dto.Overspend = append(dto.Overspend, overspendDTO{
			Category:        o.Category,
			Amount:          o.Amount,
			PercentOfBudget: o.PercentOfBudget,
		})
	}
	for _, item := range alerts.Affordable {
		dto.Affordable = append(dto.Affordable, wishlistItemFromCore(item))
	}
	return dto
}
