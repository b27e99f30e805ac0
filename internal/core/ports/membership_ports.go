package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
)

// MembershipOracle answers membership and club-configuration questions
// for the voting engine. It is owned by the club/member side of the
// system; the engine only reads from it.
type MembershipOracle interface {
	// GetMembership returns (nil, nil) when the user is not a member.
	GetMembership(ctx context.Context, clubID, userID uuid.UUID) (*domain.Membership, error)
	GetVotingConfig(ctx context.Context, clubID uuid.UUID) (*domain.VotingConfig, error)
	CountMembers(ctx context.Context, clubID uuid.UUID) (int64, error)
	SumContributions(ctx context.Context, clubID uuid.UUID) (float64, error)
}
