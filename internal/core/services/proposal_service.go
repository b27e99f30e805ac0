package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

type proposalService struct {
	proposals ports.ProposalRepository
	votes     ports.VoteRepository
	members   ports.MembershipOracle
	audit     ports.AuditSink
}

func NewProposalService(proposals ports.ProposalRepository, votes ports.VoteRepository, members ports.MembershipOracle, audit ports.AuditSink) ports.ProposalService {
	return &proposalService{
		proposals: proposals,
		votes:     votes,
		members:   members,
		audit:     audit,
	}
}

func (s *proposalService) Create(ctx context.Context, clubID, actorID uuid.UUID, input ports.CreateProposalInput) (*domain.Proposal, error) {
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

	now := time.Now()
	assetType := domain.AssetStock
	executionMethod := domain.ExecutionManual

	v := domain.NewValidationError()
	if input.Title == "" {
		v.Add("title", "title is required")
	}
	if input.Amount <= 0 || math.IsInf(input.Amount, 0) || math.IsNaN(input.Amount) {
		v.Add("amount", "amount must be a positive number")
	}
	if input.Deadline.IsZero() {
		v.Add("deadline", "deadline is required")
	} else if !input.Deadline.After(now) {
		v.Add("deadline", "deadline must be in the future")
	}
	if input.AssetType != "" {
		assetType = domain.AssetType(input.AssetType)
		if !assetType.Valid() {
			v.Add("asset_type", "asset type must be one of stock, fund, crypto, bond, other")
		}
	}
	if input.ExecutionMethod != "" {
		executionMethod = domain.ExecutionMethod(input.ExecutionMethod)
		if !executionMethod.Valid() {
			v.Add("execution_method", "execution method must be manual or automatic")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	snapshot, err := s.weightSnapshot(ctx, clubID, cfg.VotingMode)
	if err != nil {
		return nil, err
	}

	proposal := &domain.Proposal{
		ID:                  uuid.New(),
		ClubID:              clubID,
		Title:               input.Title,
		Description:         input.Description,
		Amount:              input.Amount,
		AssetType:           assetType,
		AssetSymbol:         input.AssetSymbol,
		CreatedBy:           actorID,
		Deadline:            input.Deadline,
		ExecutionMethod:     executionMethod,
		Status:              domain.ProposalActive,
		WeightSnapshotTotal: snapshot,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, clubID, actorID, domain.EventProposalCreated, map[string]any{
		"proposal_id": proposal.ID.String(),
		"title":       proposal.Title,
		"amount":      proposal.Amount,
	})

	return proposal, nil
}

// weightSnapshot freezes the approval denominator at creation time:
// the member count under simple voting, the contribution sum under
// weighted voting. Later membership changes never touch it.
func (s *proposalService) weightSnapshot(ctx context.Context, clubID uuid.UUID, mode domain.VotingMode) (float64, error) {
	if mode == domain.VotingWeighted {
		sum, err := s.members.SumContributions(ctx, clubID)
		if err != nil {
			return 0, fmt.Errorf("failed to sum contributions: %w", err)
		}
		return sum, nil
	}

	count, err := s.members.CountMembers(ctx, clubID)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return float64(count), nil
}

func (s *proposalService) Get(ctx context.Context, clubID, proposalID, actorID uuid.UUID) (*domain.ProposalDetail, error) {
	membership, err := s.members.GetMembership(ctx, clubID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	if membership == nil {
		return nil, domain.ErrAccessDenied
	}

	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.ClubID != clubID {
		return nil, domain.ErrProposalNotFound
	}

	votes, err := s.votes.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	detail := &domain.ProposalDetail{Proposal: *proposal, Votes: votes}
	for i := range votes {
		if votes[i].UserID == actorID {
			detail.MyVote = &votes[i]
			break
		}
	}

	return detail, nil
}

func (s *proposalService) List(ctx context.Context, clubID, actorID uuid.UUID, status string) ([]*domain.Proposal, error) {
	membership, err := s.members.GetMembership(ctx, clubID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	if membership == nil {
		return nil, domain.ErrAccessDenied
	}

	var filter domain.ProposalStatus
	if status != "" {
		filter = domain.ProposalStatus(status)
		if !filter.Valid() {
			v := domain.NewValidationError()
			v.Add("status", "unknown proposal status")
			return nil, v
		}
	}

	return s.proposals.ListByClub(ctx, clubID, filter)
}
