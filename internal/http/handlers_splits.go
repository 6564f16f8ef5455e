package http

import (
	"context"
	"net/http"
)

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		splits, err := s.budget.ListSplitPayments(ctx)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]splitPaymentDTO, 0, len(splits))
		for _, p := range splits {
			out = append(out, splitFromCore(p))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto splitPaymentDTO
		if err := decodeJSON(r, &dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		split, err := dto.toCore()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		saved, err := s.budget.AddSplitPayment(ctx, split)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, splitFromCore(saved))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleSplitByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id := pathID(r, "/api/splits/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	if err := s.budget.DeleteSplitPayment(ctx, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
