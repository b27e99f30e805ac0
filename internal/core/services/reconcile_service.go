package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/clubpool/clubpool/internal/core/ports"
)

type reconcileService struct {
	proposals ports.ProposalRepository
	votes     ports.VoteRepository
}

func NewReconcileService(proposals ports.ProposalRepository, votes ports.VoteRepository) ports.ReconcileService {
	return &reconcileService{
		proposals: proposals,
		votes:     votes,
	}
}

// ReconcileAllTallies recomputes every proposal's vote count and weight
// accumulators from the vote ledger, repairing any drift. Status,
// snapshot total and resolution timestamps are never touched.
func (s *reconcileService) ReconcileAllTallies(ctx context.Context) error {
	proposals, err := s.proposals.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch proposals: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(proposals))

	for _, proposal := range proposals {
		wg.Add(1)
		go func(pID [16]byte) { // passing ID by value (uuid.UUID is [16]byte) to avoid closure issues
			defer wg.Done()
			if err := s.votes.ReconcileTallies(ctx, pID); err != nil {
				errChan <- fmt.Errorf("failed to reconcile proposal %s: %w", pID, err)
			}
		}(proposal.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}
