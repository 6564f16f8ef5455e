package http

import (
	"context"
	"net/http"
)

type createWishlistResponse struct {
	Item       wishlistItemDTO `json:"item"`
	Affordable bool            `json:"affordable"`
}

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		items, err := s.budget.ListWishlist(ctx)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, wishlistFromCore(items))

	case http.MethodPost:
		var dto wishlistItemDTO
		if err := decodeJSON(r, &dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		saved, affordable, err := s.budget.AddWishlistItem(ctx, dto.toCore())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, createWishlistResponse{
			Item:       wishlistItemFromCore(saved),
			Affordable: affordable,
		})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleWishlistByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id := pathID(r, "/api/wishlist/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	if err := s.budget.DeleteWishlistItem(ctx, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAffordableWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	items, err := s.budget.AffordableWishlist(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wishlistFromCore(items))
}
