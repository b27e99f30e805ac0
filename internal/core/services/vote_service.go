package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

type voteService struct {
	proposals ports.ProposalRepository
	votes     ports.VoteRepository
	members   ports.MembershipOracle
	audit     ports.AuditSink
}

func NewVoteService(proposals ports.ProposalRepository, votes ports.VoteRepository, members ports.MembershipOracle, audit ports.AuditSink) ports.VoteService {
	return &voteService{
		proposals: proposals,
		votes:     votes,
		members:   members,
		audit:     audit,
	}
}

func (s *voteService) Cast(ctx context.Context, clubID, proposalID, actorID uuid.UUID, input ports.CastVoteInput) (*domain.Vote, error) {
	choice := domain.VoteChoice(input.Choice)
	if !choice.Valid() {
		v := domain.NewValidationError()
		v.Add("choice", "vote must be yes or no")
		return nil, v
	}

	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.ClubID != clubID {
		return nil, domain.ErrProposalNotFound
	}

	if proposal.Status != domain.ProposalActive {
		return nil, domain.ErrProposalNotActive
	}

	// The deadline gates new votes even when nobody has mechanically
	// closed the proposal yet.
	if time.Now().After(proposal.Deadline) {
		return nil, domain.ErrDeadlinePassed
	}

	membership, err := s.members.GetMembership(ctx, clubID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	if membership == nil {
		return nil, domain.ErrAccessDenied
	}

	cfg, err := s.members.GetVotingConfig(ctx, clubID)
	if err != nil {
		return nil, err
	}

	weight := 1.0
	if cfg.VotingMode == domain.VotingWeighted {
		weight = membership.ContributionAmount
	}

	vote := &domain.Vote{
		ID:         uuid.New(),
		ProposalID: proposalID,
		UserID:     actorID,
		Choice:     choice,
		Weight:     weight,
		Comment:    input.Comment,
		CreatedAt:  time.Now(),
	}

	// Duplicate detection happens in the storage layer, not here: two
	// concurrent casts from the same member race to the unique index
	// and exactly one wins.
	if err := s.votes.CastVote(ctx, vote); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, clubID, actorID, domain.EventVoteCast, map[string]any{
		"proposal_id": proposalID.String(),
		"choice":      string(choice),
		"weight":      weight,
	})

	return vote, nil
}
