package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

const uniqueViolation = "23505"

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// CastVote inserts the vote and bumps the proposal's aggregates in one
// transaction. The unique (proposal_id, user_id) index is the arbiter
// for duplicates; the tally update only matches an active proposal, so
// a cast racing a close rolls back entirely.
func (r *voteRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryVote := `
		INSERT INTO votes (id, proposal_id, user_id, choice, weight, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = tx.QueryRowContext(ctx, queryVote,
		vote.ID, vote.ProposalID, vote.UserID, vote.Choice, vote.Weight, nullString(vote.Comment),
	).Scan(&vote.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	weightColumn := "yes_weight"
	if vote.Choice == domain.VoteNo {
		weightColumn = "no_weight"
	}
	queryTally := fmt.Sprintf(`
		UPDATE proposals
		SET votes_count = votes_count + 1,
		    %s = %s + $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, weightColumn, weightColumn)

	res, err := tx.ExecContext(ctx, queryTally, vote.ProposalID, vote.Weight)
	if err != nil {
		return fmt.Errorf("failed to update tallies: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrProposalNotActive
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (r *voteRepository) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.Vote, error) {
	query := `
		SELECT id, proposal_id, user_id, choice, weight, comment, created_at
		FROM votes
		WHERE proposal_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, *vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}

func (r *voteRepository) GetByVoter(ctx context.Context, proposalID, userID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, proposal_id, user_id, choice, weight, comment, created_at
		FROM votes
		WHERE proposal_id = $1 AND user_id = $2
	`
	vote, err := scanVote(r.db.QueryRowContext(ctx, query, proposalID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return vote, nil
}

// ReconcileTallies rebuilds the proposal's aggregates from the ledger.
func (r *voteRepository) ReconcileTallies(ctx context.Context, proposalID uuid.UUID) error {
	query := `
		UPDATE proposals p
		SET votes_count = v.cnt,
		    yes_weight = v.yes_weight,
		    no_weight = v.no_weight,
		    updated_at = NOW()
		FROM (
			SELECT
				COUNT(*) AS cnt,
				COALESCE(SUM(weight) FILTER (WHERE choice = 'yes'), 0) AS yes_weight,
				COALESCE(SUM(weight) FILTER (WHERE choice = 'no'), 0) AS no_weight
			FROM votes
			WHERE proposal_id = $1
		) v
		WHERE p.id = $1
	`
	_, err := r.db.ExecContext(ctx, query, proposalID)
	if err != nil {
		return fmt.Errorf("failed to reconcile tallies for proposal %s: %w", proposalID, err)
	}
	return nil
}

func scanVote(row rowScanner) (*domain.Vote, error) {
	var (
		vote    domain.Vote
		comment sql.NullString
	)
	err := row.Scan(
		&vote.ID,
		&vote.ProposalID,
		&vote.UserID,
		&vote.Choice,
		&vote.Weight,
		&comment,
		&vote.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	vote.Comment = comment.String
	return &vote, nil
}
