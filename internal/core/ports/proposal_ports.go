package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
)

type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	// ListByClub returns a club's proposals newest-first. An empty
	// status means no filter.
	ListByClub(ctx context.Context, clubID uuid.UUID, status domain.ProposalStatus) ([]*domain.Proposal, error)
	GetAll(ctx context.Context) ([]*domain.Proposal, error)
	// Transition is a compare-and-set on status. It reports false when
	// the proposal was not in `from` anymore, so concurrent resolutions
	// cannot both win. A non-nil resolvedAt is written alongside.
	Transition(ctx context.Context, id uuid.UUID, from, to domain.ProposalStatus, resolvedAt *time.Time) (bool, error)
}

type CreateProposalInput struct {
	Title           string
	Description     string
	Amount          float64
	AssetType       string
	AssetSymbol     string
	Deadline        time.Time
	ExecutionMethod string
}

type ProposalService interface {
	Create(ctx context.Context, clubID, actorID uuid.UUID, input CreateProposalInput) (*domain.Proposal, error)
	Get(ctx context.Context, clubID, proposalID, actorID uuid.UUID) (*domain.ProposalDetail, error)
	List(ctx context.Context, clubID, actorID uuid.UUID, status string) ([]*domain.Proposal, error)
}
