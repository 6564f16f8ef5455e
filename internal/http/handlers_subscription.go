package http

import (
	"context"
	"net/http"
)

func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		subs, err := s.budget.ListSubscriptions(ctx)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]subscriptionDTO, 0, len(subs))
		for _, sub := range subs {
			out = append(out, subscriptionFromCore(sub))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto subscriptionDTO
		if err := decodeJSON(r, &dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sub, err := dto.toCore()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		saved, err := s.budget.AddSubscription(ctx, sub)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, subscriptionFromCore(saved))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleSubscriptionByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id := pathID(r, "/api/subscriptions/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	if err := s.budget.DeleteSubscription(ctx, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUpcomingSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	upcoming, err := s.budget.UpcomingSubscriptionPayments(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]upcomingPaymentDTO, 0, len(upcoming))
	for _, up := range upcoming {
		out = append(out, upcomingPaymentDTO{
			Subscription: subscriptionFromCore(up.Subscription),
			DaysUntil:    up.DaysUntil,
			Urgent:       up.Urgent,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
