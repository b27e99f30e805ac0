package domain

import (
	"time"

	"github.com/google/uuid"
)

type VoteChoice string

const (
	VoteYes VoteChoice = "yes"
	VoteNo  VoteChoice = "no"
)

func (c VoteChoice) Valid() bool {
	return c == VoteYes || c == VoteNo
}

// Vote is immutable once cast. Weight is captured at cast time and is
// never re-derived, even if the member's contribution changes later.
type Vote struct {
	ID         uuid.UUID  `json:"id"`
	ProposalID uuid.UUID  `json:"proposal_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Choice     VoteChoice `json:"choice"`
	Weight     float64    `json:"weight"`
	Comment    string     `json:"comment,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
