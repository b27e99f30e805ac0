package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

type ProposalHandler struct {
	service ports.ProposalService
}

func NewProposalHandler(service ports.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		service: service,
	}
}

type createProposalRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	AssetType       string  `json:"asset_type"`
	AssetSymbol     string  `json:"asset_symbol"`
	Deadline        string  `json:"deadline"`
	ExecutionMethod string  `json:"execution_method"`
}

func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	clubID, err := uuid.Parse(chi.URLParam(r, "clubID"))
	if err != nil {
		http.Error(w, "invalid club id", http.StatusBadRequest)
		return
	}

	userID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req createProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var deadline time.Time
	if req.Deadline != "" {
		deadline, err = time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			v := domain.NewValidationError()
			v.Add("deadline", "deadline must be an RFC 3339 timestamp")
			writeValidationError(w, v)
			return
		}
	}

	input := ports.CreateProposalInput{
		Title:           req.Title,
		Description:     req.Description,
		Amount:          req.Amount,
		AssetType:       req.AssetType,
		AssetSymbol:     req.AssetSymbol,
		Deadline:        deadline,
		ExecutionMethod: req.ExecutionMethod,
	}

	proposal, err := h.service.Create(r.Context(), clubID, userID, input)
	if err != nil {
		if v, ok := isValidationError(err); ok {
			writeValidationError(w, v)
			return
		}
		if errors.Is(err, domain.ErrAccessDenied) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrClubNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, proposal)
}

func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	clubID, err := uuid.Parse(chi.URLParam(r, "clubID"))
	if err != nil {
		http.Error(w, "invalid club id", http.StatusBadRequest)
		return
	}

	userID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	proposals, err := h.service.List(r.Context(), clubID, userID, r.URL.Query().Get("status"))
	if err != nil {
		if v, ok := isValidationError(err); ok {
			writeValidationError(w, v)
			return
		}
		if errors.Is(err, domain.ErrAccessDenied) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}

		writeInternalError(w, r, err)
		return
	}

	if proposals == nil {
		proposals = []*domain.Proposal{}
	}
	writeJSON(w, http.StatusOK, proposals)
}

func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.service.Get(r.Context(), clubID, proposalID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrProposalNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		writeInternalError(w, r, err)
		return
	}

	if detail.Votes == nil {
		detail.Votes = []domain.Vote{}
	}
	writeJSON(w, http.StatusOK, detail)
}
