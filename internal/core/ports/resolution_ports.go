package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
)

type ResolutionService interface {
	Close(ctx context.Context, clubID, proposalID, actorID uuid.UUID) (*domain.Proposal, error)
	Execute(ctx context.Context, clubID, proposalID, actorID uuid.UUID) (*domain.Proposal, error)
	Cancel(ctx context.Context, clubID, proposalID, actorID uuid.UUID) (*domain.Proposal, error)
}

type ReconcileService interface {
	ReconcileAllTallies(ctx context.Context) error
}
