package http

import (
	"context"
	"net/http"
	"time"

	"paisa/internal/advisor"
	"paisa/internal/core"
)

func (s *Server) handleAdvisor(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var dto advisorRequestDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sanitizeInput(dto.Message) == "" {
		writeError(w, http.StatusUnprocessableEntity, "empty message")
		return
	}

	now := time.Now()
	summary, err := s.budget.MonthSummary(ctx, now.Year(), int(now.Month()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	snap := advisor.Snapshot{
		Budget:         summary.Budget,
		TotalSpent:     summary.Overview.Total,
		CategoryTotals: summary.Overview.ByCategory,
	}

	reply, matched := s.advisor.Reply(dto.Message, snap)
	writeJSON(w, http.StatusOK, advisorResponseDTO{Reply: reply, Matched: matched})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		feedback, err := s.budget.ListFeedback(ctx)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]feedbackDTO, 0, len(feedback))
		for _, fb := range feedback {
			out = append(out, feedbackDTO{
				ID:      fb.ID,
				Message: fb.Message,
				Rating:  fb.Rating,
				Date:    fb.Date.Format("2006-01-02"),
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto feedbackDTO
		if err := decodeJSON(r, &dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		saved, err := s.budget.AddFeedback(ctx, core.Feedback{
			Message: sanitizeInput(dto.Message),
			Rating:  dto.Rating,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, feedbackDTO{
			ID:      saved.ID,
			Message: saved.Message,
			Rating:  saved.Rating,
			Date:    saved.Date.Format("2006-01-02"),
		})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}
