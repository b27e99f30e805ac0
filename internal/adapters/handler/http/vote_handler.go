package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type castVoteRequest struct {
	Choice  string `json:"choice"`
	Comment string `json:"comment"`
}

func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	clubID, err := uuid.Parse(chi.URLParam(r, "clubID"))
	if err != nil {
		http.Error(w, "invalid club id", http.StatusBadRequest)
		return
	}
	proposalID, err := uuid.Parse(chi.URLParam(r, "proposalID"))
	if err != nil {
		http.Error(w, "invalid proposal id", http.StatusBadRequest)
		return
	}

	userID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.CastVoteInput{
		Choice:  req.Choice,
		Comment: req.Comment,
	}

	vote, err := h.service.Cast(r.Context(), clubID, proposalID, userID, input)
	if err != nil {
		if v, ok := isValidationError(err); ok {
			writeValidationError(w, v)
			return
		}
		if errors.Is(err, domain.ErrProposalNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrAccessDenied) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrAlreadyVoted) ||
			errors.Is(err, domain.ErrProposalNotActive) ||
			errors.Is(err, domain.ErrDeadlinePassed) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, vote)
}
