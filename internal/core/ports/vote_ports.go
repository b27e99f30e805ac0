package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
)

type VoteRepository interface {
	// CastVote inserts the vote and bumps the proposal's tallies in a
	// single transaction. The (proposal, voter) uniqueness lives in the
	// schema: a concurrent duplicate surfaces as domain.ErrAlreadyVoted.
	// If the proposal left the active state in the meantime the whole
	// cast rolls back with domain.ErrProposalNotActive.
	CastVote(ctx context.Context, vote *domain.Vote) error
	ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.Vote, error)
	// GetByVoter returns (nil, nil) when the member has not voted.
	GetByVoter(ctx context.Context, proposalID, userID uuid.UUID) (*domain.Vote, error)
	// ReconcileTallies recomputes votes_count and the weight
	// accumulators for one proposal from the vote ledger.
	ReconcileTallies(ctx context.Context, proposalID uuid.UUID) error
}

type CastVoteInput struct {
	Choice  string
	Comment string
}

type VoteService interface {
	Cast(ctx context.Context, clubID, proposalID, actorID uuid.UUID, input CastVoteInput) (*domain.Vote, error)
}
