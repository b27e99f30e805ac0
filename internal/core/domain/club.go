package domain

import (
	"time"

	"github.com/google/uuid"
)

type VotingMode string

const (
	VotingSimple   VotingMode = "simple"
	VotingWeighted VotingMode = "weighted"
)

type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleTreasurer Role = "treasurer"
	RoleMember    Role = "member"
)

// CanResolve reports whether the role may close or cancel proposals.
func (r Role) CanResolve() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanExecute reports whether the role may execute approved proposals.
func (r Role) CanExecute() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleTreasurer
}

type Membership struct {
	ClubID             uuid.UUID `json:"club_id"`
	UserID             uuid.UUID `json:"user_id"`
	Role               Role      `json:"role"`
	ContributionAmount float64   `json:"contribution_amount"`
	JoinedAt           time.Time `json:"joined_at"`
}

// VotingConfig is the slice of club configuration the voting engine
// reads; it is owned by the membership side and consumed read-only.
type VotingConfig struct {
	VotingMode               VotingMode
	ApprovalThresholdPercent float64
	VotingPeriodDays         int
}
