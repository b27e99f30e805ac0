package domain

import (
	"time"

	"github.com/google/uuid"
)

type AssetType string

const (
	AssetStock  AssetType = "stock"
	AssetFund   AssetType = "fund"
	AssetCrypto AssetType = "crypto"
	AssetBond   AssetType = "bond"
	AssetOther  AssetType = "other"
)

func (t AssetType) Valid() bool {
	switch t {
	case AssetStock, AssetFund, AssetCrypto, AssetBond, AssetOther:
		return true
	}
	return false
}

type ExecutionMethod string

const (
	ExecutionManual    ExecutionMethod = "manual"
	ExecutionAutomatic ExecutionMethod = "automatic"
)

func (m ExecutionMethod) Valid() bool {
	return m == ExecutionManual || m == ExecutionAutomatic
}

type ProposalStatus string

const (
	ProposalActive    ProposalStatus = "active"
	ProposalApproved  ProposalStatus = "approved"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalExecuted  ProposalStatus = "executed"
	ProposalCancelled ProposalStatus = "cancelled"
)

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalActive, ProposalApproved, ProposalRejected, ProposalExecuted, ProposalCancelled:
		return true
	}
	return false
}

type Proposal struct {
	ID                  uuid.UUID       `json:"id"`
	ClubID              uuid.UUID       `json:"club_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description,omitempty"`
	Amount              float64         `json:"amount"`
	AssetType           AssetType       `json:"asset_type"`
	AssetSymbol         string          `json:"asset_symbol,omitempty"`
	CreatedBy           uuid.UUID       `json:"created_by"`
	Deadline            time.Time       `json:"deadline"`
	ExecutionMethod     ExecutionMethod `json:"execution_method"`
	Status              ProposalStatus  `json:"status"`
	VotesCount          int64           `json:"votes_count"`
	YesWeight           float64         `json:"yes_weight"`
	NoWeight            float64         `json:"no_weight"`
	WeightSnapshotTotal float64         `json:"weight_snapshot_total"`
	ResolvedAt          *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ApprovalPercentage is the yes weight as a percentage of the snapshot
// taken at creation. A zero snapshot (club with no recorded weight)
// yields 0 rather than dividing by zero.
func (p *Proposal) ApprovalPercentage() float64 {
	if p.WeightSnapshotTotal <= 0 {
		return 0
	}
	return p.YesWeight / p.WeightSnapshotTotal * 100
}

// ProposalDetail is the single-proposal view: the record, every vote
// cast on it, and the requesting member's own vote if any.
type ProposalDetail struct {
	Proposal
	Votes  []Vote `json:"votes"`
	MyVote *Vote  `json:"my_vote,omitempty"`
}
