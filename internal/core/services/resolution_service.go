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

type resolutionService struct {
	proposals ports.ProposalRepository
	members   ports.MembershipOracle
	executor  ports.OrderExecutor
	audit     ports.AuditSink
}

func NewResolutionService(proposals ports.ProposalRepository, members ports.MembershipOracle, executor ports.OrderExecutor, audit ports.AuditSink) ports.ResolutionService {
	return &resolutionService{
		proposals: proposals,
		members:   members,
		executor:  executor,
		audit:     audit,
	}
}

// Close tallies an active proposal against the club's approval
// threshold and moves it to approved or rejected. Closing anything
// that is no longer active fails so callers can tell "already done"
// from "done just now".
func (s *resolutionService) Close(ctx context.Context, clubID, proposalID, actorID uuid.UUID) (*domain.Proposal, error) {
	if err := s.authorize(ctx, clubID, actorID, domain.Role.CanResolve); err != nil {
		return nil, err
	}

	proposal, err := s.loadClubProposal(ctx, clubID, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != domain.ProposalActive {
		return nil, domain.ErrProposalNotActive
	}

	cfg, err := s.members.GetVotingConfig(ctx, clubID)
	if err != nil {
		return nil, err
	}

	approval := proposal.ApprovalPercentage()
	newStatus := domain.ProposalRejected
	if approval >= cfg.ApprovalThresholdPercent {
		newStatus = domain.ProposalApproved
	}

	now := time.Now()
	ok, err := s.proposals.Transition(ctx, proposalID, domain.ProposalActive, newStatus, &now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against another close or a cancel.
		return nil, domain.ErrProposalNotActive
	}

	proposal.Status = newStatus
	proposal.ResolvedAt = &now
	proposal.UpdatedAt = now

	recordAudit(ctx, s.audit, clubID, actorID, domain.EventProposalResolved, map[string]any{
		"proposal_id":         proposalID.String(),
		"status":              string(newStatus),
		"approval_percentage": approval,
	})

	return proposal, nil
}

// Execute hands an approved proposal to the order side, then marks it
// executed. The transition happens only after the hand-off succeeded:
// a failed submission leaves the proposal approved and retryable.
func (s *resolutionService) Execute(ctx context.Context, clubID, proposalID, actorID uuid.UUID) (*domain.Proposal, error) {
	if err := s.authorize(ctx, clubID, actorID, domain.Role.CanExecute); err != nil {
		return nil, err
	}

	proposal, err := s.loadClubProposal(ctx, clubID, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != domain.ProposalApproved {
		return nil, domain.ErrProposalNotApproved
	}
	if proposal.AssetSymbol == "" {
		v := domain.NewValidationError()
		v.Add("asset_symbol", "proposal has no asset symbol to order")
		return nil, v
	}

	orderID, err := s.executor.SubmitOrder(ctx, domain.OrderRequest{
		ClubID:     clubID,
		ProposalID: proposalID,
		CreatedBy:  actorID,
		Symbol:     proposal.AssetSymbol,
		Side:       domain.OrderBuy,
		Quantity:   math.Floor(proposal.Amount / 100),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	ok, err := s.proposals.Transition(ctx, proposalID, domain.ProposalApproved, domain.ProposalExecuted, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrProposalNotApproved
	}

	proposal.Status = domain.ProposalExecuted
	proposal.UpdatedAt = time.Now()

	recordAudit(ctx, s.audit, clubID, actorID, domain.EventProposalExecuted, map[string]any{
		"proposal_id": proposalID.String(),
		"order_id":    orderID.String(),
	})

	return proposal, nil
}

func (s *resolutionService) Cancel(ctx context.Context, clubID, proposalID, actorID uuid.UUID) (*domain.Proposal, error) {
	if err := s.authorize(ctx, clubID, actorID, domain.Role.CanResolve); err != nil {
		return nil, err
	}

	proposal, err := s.loadClubProposal(ctx, clubID, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != domain.ProposalActive {
		return nil, domain.ErrProposalNotActive
	}

	now := time.Now()
	ok, err := s.proposals.Transition(ctx, proposalID, domain.ProposalActive, domain.ProposalCancelled, &now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrProposalNotActive
	}

	proposal.Status = domain.ProposalCancelled
	proposal.ResolvedAt = &now
	proposal.UpdatedAt = now

	recordAudit(ctx, s.audit, clubID, actorID, domain.EventProposalCancelled, map[string]any{
		"proposal_id": proposalID.String(),
	})

	return proposal, nil
}

func (s *resolutionService) authorize(ctx context.Context, clubID, actorID uuid.UUID, allowed func(domain.Role) bool) error {
	membership, err := s.members.GetMembership(ctx, clubID, actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve membership: %w", err)
	}
	if membership == nil || !allowed(membership.Role) {
		return domain.ErrAccessDenied
	}
	return nil
}

func (s *resolutionService) loadClubProposal(ctx context.Context, clubID, proposalID uuid.UUID) (*domain.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.ClubID != clubID {
		return nil, domain.ErrProposalNotFound
	}
	return proposal, nil
}
