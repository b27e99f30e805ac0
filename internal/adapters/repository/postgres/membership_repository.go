package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

// membershipRepository is the postgres-backed Membership Oracle,
// reading the clubs and club_members tables owned by the membership
// side of the system.
type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) ports.MembershipOracle {
	return &membershipRepository{
		db: db,
	}
}

func (r *membershipRepository) GetMembership(ctx context.Context, clubID, userID uuid.UUID) (*domain.Membership, error) {
	query := `
		SELECT club_id, user_id, role, contribution_amount, joined_at
		FROM club_members
		WHERE club_id = $1 AND user_id = $2
	`
	membership := &domain.Membership{}
	err := r.db.QueryRowContext(ctx, query, clubID, userID).Scan(
		&membership.ClubID,
		&membership.UserID,
		&membership.Role,
		&membership.ContributionAmount,
		&membership.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return membership, nil
}

func (r *membershipRepository) GetVotingConfig(ctx context.Context, clubID uuid.UUID) (*domain.VotingConfig, error) {
	query := `
		SELECT voting_mode, approval_threshold_percent, voting_period_days
		FROM clubs
		WHERE id = $1
	`
	cfg := &domain.VotingConfig{}
	err := r.db.QueryRowContext(ctx, query, clubID).Scan(
		&cfg.VotingMode,
		&cfg.ApprovalThresholdPercent,
		&cfg.VotingPeriodDays,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get voting config: %w", err)
	}
	return cfg, nil
}

func (r *membershipRepository) CountMembers(ctx context.Context, clubID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM club_members WHERE club_id = $1`, clubID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

func (r *membershipRepository) SumContributions(ctx context.Context, clubID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(contribution_amount), 0) FROM club_members WHERE club_id = $1`, clubID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum contributions: %w", err)
	}
	return sum, nil
}
