package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

// orderRepository is the execution collaborator: it records a pending
// order for the broker side to pick up and returns its id. Fills are
// tracked on the order row by the (external) broker sync, never by the
// proposal.
type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) ports.OrderExecutor {
	return &orderRepository{
		db: db,
	}
}

func (r *orderRepository) SubmitOrder(ctx context.Context, req domain.OrderRequest) (uuid.UUID, error) {
	orderID := uuid.New()
	query := `
		INSERT INTO orders (id, club_id, proposal_id, created_by, side, symbol, quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
	`
	_, err := r.db.ExecContext(ctx, query,
		orderID, req.ClubID, req.ProposalID, req.CreatedBy, req.Side, req.Symbol, req.Quantity,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to submit order: %w", err)
	}
	return orderID, nil
}
