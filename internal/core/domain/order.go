package domain

import "github.com/google/uuid"

type OrderSide string

const (
	OrderBuy  OrderSide = "buy"
	OrderSell OrderSide = "sell"
)

// OrderRequest is handed off to the execution collaborator when an
// approved proposal is executed. The fill itself is tracked by the
// order system, not by the proposal.
type OrderRequest struct {
	ClubID     uuid.UUID `json:"club_id"`
	ProposalID uuid.UUID `json:"proposal_id"`
	CreatedBy  uuid.UUID `json:"created_by"`
	Symbol     string    `json:"symbol"`
	Side       OrderSide `json:"side"`
	Quantity   float64   `json:"quantity"`
}
