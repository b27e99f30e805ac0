package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

type fakeProposalRepo struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]*domain.Proposal
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: map[uuid.UUID]*domain.Proposal{}}
}

func (r *fakeProposalRepo) Create(_ context.Context, p *domain.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.proposals[p.ID] = &cp
	return nil
}

func (r *fakeProposalRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proposals[id]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProposalRepo) ListByClub(_ context.Context, clubID uuid.UUID, status domain.ProposalStatus) ([]*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Proposal
	for _, p := range r.proposals {
		if p.ClubID != clubID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProposalRepo) GetAll(_ context.Context) ([]*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Proposal
	for _, p := range r.proposals {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProposalRepo) Transition(_ context.Context, id uuid.UUID, from, to domain.ProposalStatus, resolvedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proposals[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	if resolvedAt != nil {
		t := *resolvedAt
		p.ResolvedAt = &t
	}
	p.UpdatedAt = time.Now()
	return true, nil
}

type fakeVoteRepo struct {
	mu        sync.Mutex
	votes     map[uuid.UUID]map[uuid.UUID]domain.Vote // proposal -> voter -> vote
	proposals *fakeProposalRepo
}

func newFakeVoteRepo(proposals *fakeProposalRepo) *fakeVoteRepo {
	return &fakeVoteRepo{
		votes:     map[uuid.UUID]map[uuid.UUID]domain.Vote{},
		proposals: proposals,
	}
}

func (r *fakeVoteRepo) CastVote(_ context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byVoter, ok := r.votes[vote.ProposalID]
	if !ok {
		byVoter = map[uuid.UUID]domain.Vote{}
		r.votes[vote.ProposalID] = byVoter
	}
	if _, exists := byVoter[vote.UserID]; exists {
		return domain.ErrAlreadyVoted
	}

	r.proposals.mu.Lock()
	defer r.proposals.mu.Unlock()
	p, ok := r.proposals.proposals[vote.ProposalID]
	if !ok || p.Status != domain.ProposalActive {
		return domain.ErrProposalNotActive
	}

	byVoter[vote.UserID] = *vote
	p.VotesCount++
	if vote.Choice == domain.VoteYes {
		p.YesWeight += vote.Weight
	} else {
		p.NoWeight += vote.Weight
	}
	return nil
}

func (r *fakeVoteRepo) ListByProposal(_ context.Context, proposalID uuid.UUID) ([]domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Vote
	for _, v := range r.votes[proposalID] {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVoteRepo) GetByVoter(_ context.Context, proposalID, userID uuid.UUID) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.votes[proposalID][userID]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *fakeVoteRepo) ReconcileTallies(_ context.Context, proposalID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proposals.mu.Lock()
	defer r.proposals.mu.Unlock()

	p, ok := r.proposals.proposals[proposalID]
	if !ok {
		return nil
	}
	p.VotesCount = 0
	p.YesWeight = 0
	p.NoWeight = 0
	for _, v := range r.votes[proposalID] {
		p.VotesCount++
		if v.Choice == domain.VoteYes {
			p.YesWeight += v.Weight
		} else {
			p.NoWeight += v.Weight
		}
	}
	return nil
}

type fakeOracle struct {
	mu          sync.Mutex
	memberships map[uuid.UUID]map[uuid.UUID]domain.Membership // club -> user
	configs     map[uuid.UUID]domain.VotingConfig
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		memberships: map[uuid.UUID]map[uuid.UUID]domain.Membership{},
		configs:     map[uuid.UUID]domain.VotingConfig{},
	}
}

func (o *fakeOracle) addClub(clubID uuid.UUID, cfg domain.VotingConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.configs[clubID] = cfg
}

func (o *fakeOracle) addMember(clubID, userID uuid.UUID, role domain.Role, contribution float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	byUser, ok := o.memberships[clubID]
	if !ok {
		byUser = map[uuid.UUID]domain.Membership{}
		o.memberships[clubID] = byUser
	}
	byUser[userID] = domain.Membership{
		ClubID:             clubID,
		UserID:             userID,
		Role:               role,
		ContributionAmount: contribution,
		JoinedAt:           time.Now(),
	}
}

func (o *fakeOracle) GetMembership(_ context.Context, clubID, userID uuid.UUID) (*domain.Membership, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m, ok := o.memberships[clubID][userID]; ok {
		return &m, nil
	}
	return nil, nil
}

func (o *fakeOracle) GetVotingConfig(_ context.Context, clubID uuid.UUID) (*domain.VotingConfig, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if cfg, ok := o.configs[clubID]; ok {
		return &cfg, nil
	}
	return nil, domain.ErrClubNotFound
}

func (o *fakeOracle) CountMembers(_ context.Context, clubID uuid.UUID) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return int64(len(o.memberships[clubID])), nil
}

func (o *fakeOracle) SumContributions(_ context.Context, clubID uuid.UUID) (float64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var sum float64
	for _, m := range o.memberships[clubID] {
		sum += m.ContributionAmount
	}
	return sum, nil
}

type auditEntry struct {
	clubID    uuid.UUID
	actorID   uuid.UUID
	eventType string
	data      map[string]any
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
	err     error
}

func (a *fakeAudit) Record(_ context.Context, clubID, actorID uuid.UUID, eventType string, data map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, auditEntry{clubID: clubID, actorID: actorID, eventType: eventType, data: data})
	return nil
}

type fakeExecutor struct {
	mu       sync.Mutex
	requests []domain.OrderRequest
	err      error
}

func (e *fakeExecutor) SubmitOrder(_ context.Context, req domain.OrderRequest) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return uuid.Nil, e.err
	}
	e.requests = append(e.requests, req)
	return uuid.New(), nil
}

var (
	_ ports.ProposalRepository = (*fakeProposalRepo)(nil)
	_ ports.VoteRepository     = (*fakeVoteRepo)(nil)
	_ ports.MembershipOracle   = (*fakeOracle)(nil)
	_ ports.AuditSink          = (*fakeAudit)(nil)
	_ ports.OrderExecutor      = (*fakeExecutor)(nil)
)
