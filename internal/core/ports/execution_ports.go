package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
)

// OrderExecutor hands an order to the execution side and returns the
// created order's id. The fill is tracked asynchronously by the order
// system; the proposal only cares that the hand-off itself succeeded.
type OrderExecutor interface {
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (uuid.UUID, error)
}
