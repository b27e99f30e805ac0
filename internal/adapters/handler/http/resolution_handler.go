package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

type ResolutionHandler struct {
	service ports.ResolutionService
}

func NewResolutionHandler(service ports.ResolutionService) *ResolutionHandler {
	return &ResolutionHandler{
		service: service,
	}
}

func (h *ResolutionHandler) CloseProposal(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.service.Close)
}

func (h *ResolutionHandler) ExecuteProposal(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.service.Execute)
}

func (h *ResolutionHandler) CancelProposal(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.service.Cancel)
}

func (h *ResolutionHandler) resolve(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*domain.Proposal, error)) {
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

	proposal, err := op(r.Context(), clubID, proposalID, userID)
	if err != nil {
		if v, ok := isValidationError(err); ok {
			writeValidationError(w, v)
			return
		}
		if errors.Is(err, domain.ErrAccessDenied) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrProposalNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrProposalNotActive) || errors.Is(err, domain.ErrProposalNotApproved) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}
