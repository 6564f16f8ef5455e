package http

import (
	"context"
	"fmt"
	"net/http"

	"paisa/internal/core"
)

func (s *Server) handleCaps(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		caps, err := s.budget.ListCaps(ctx)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]capDTO, 0, len(caps))
		for _, c := range caps {
			out = append(out, capDTO{Category: c.Category, Limit: c.Limit})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPut:
		var dto capDTO
		if err := decodeJSON(r, &dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		c := core.CategoryCap{Category: sanitizeInput(dto.Category), Limit: dto.Limit}
		if err := s.budget.SetCategoryCap(ctx, c); err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.invalidateSummaries()

		writeJSON(w, http.StatusOK, dto)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		budget, err := s.budget.MonthlyBudget(ctx)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, budgetDTO{Budget: budget})

	case http.MethodPut:
		var dto budgetDTO
		if err := decodeJSON(r, &dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := s.budget.SetMonthlyBudget(ctx, dto.Budget); err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.invalidateSummaries()

		writeJSON(w, http.StatusOK, dto)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	year, month := parseYearMonth(r)
	key := fmt.Sprintf("summary:%d:%d", year, month)

	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, summaryFromService(cached))
		return
	}

	summary, err := s.budget.MonthSummary(ctx, year, month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.summaryCache.Set(key, summary)

	writeJSON(w, http.StatusOK, summaryFromService(summary))
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	report, err := s.budget.WeeklyReport(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weekReportFromCore(report))
}
