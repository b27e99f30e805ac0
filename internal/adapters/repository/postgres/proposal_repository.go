package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
)

type proposalRepository struct {
	db *sql.DB
}

func NewProposalRepository(db *sql.DB) ports.ProposalRepository {
	return &proposalRepository{
		db: db,
	}
}

const proposalColumns = `
	id, club_id, title, description, amount, asset_type, asset_symbol,
	created_by, deadline, execution_method, status, votes_count,
	yes_weight, no_weight, weight_snapshot_total, resolved_at,
	created_at, updated_at
`

func (r *proposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	query := `
		INSERT INTO proposals (
			id, club_id, title, description, amount, asset_type, asset_symbol,
			created_by, deadline, execution_method, status, weight_snapshot_total
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		proposal.ID,
		proposal.ClubID,
		proposal.Title,
		proposal.Description,
		proposal.Amount,
		proposal.AssetType,
		nullString(proposal.AssetSymbol),
		proposal.CreatedBy,
		proposal.Deadline,
		proposal.ExecutionMethod,
		proposal.Status,
		proposal.WeightSnapshotTotal,
	).Scan(&proposal.CreatedAt, &proposal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert proposal: %w", err)
	}
	return nil
}

func (r *proposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`

	proposal, err := scanProposal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return proposal, nil
}

func (r *proposalRepository) ListByClub(ctx context.Context, clubID uuid.UUID, status domain.ProposalStatus) ([]*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE club_id = $1`
	args := []any{clubID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	return scanProposals(rows)
}

func (r *proposalRepository) GetAll(ctx context.Context) ([]*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all proposals: %w", err)
	}
	defer rows.Close()

	return scanProposals(rows)
}

func (r *proposalRepository) Transition(ctx context.Context, id uuid.UUID, from, to domain.ProposalStatus, resolvedAt *time.Time) (bool, error) {
	query := `
		UPDATE proposals
		SET status = $3,
		    resolved_at = COALESCE($4, resolved_at),
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, from, to, resolvedAt)
	if err != nil {
		return false, fmt.Errorf("failed to transition proposal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*domain.Proposal, error) {
	var (
		proposal    domain.Proposal
		assetSymbol sql.NullString
		resolvedAt  sql.NullTime
	)
	err := row.Scan(
		&proposal.ID,
		&proposal.ClubID,
		&proposal.Title,
		&proposal.Description,
		&proposal.Amount,
		&proposal.AssetType,
		&assetSymbol,
		&proposal.CreatedBy,
		&proposal.Deadline,
		&proposal.ExecutionMethod,
		&proposal.Status,
		&proposal.VotesCount,
		&proposal.YesWeight,
		&proposal.NoWeight,
		&proposal.WeightSnapshotTotal,
		&resolvedAt,
		&proposal.CreatedAt,
		&proposal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	proposal.AssetSymbol = assetSymbol.String
	if resolvedAt.Valid {
		t := resolvedAt.Time
		proposal.ResolvedAt = &t
	}
	return &proposal, nil
}

func scanProposals(rows *sql.Rows) ([]*domain.Proposal, error) {
	var proposals []*domain.Proposal
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, proposal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proposals: %w", err)
	}
	return proposals, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
