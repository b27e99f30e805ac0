package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/clubpool/clubpool/internal/core/ports"
)

// auditRepository appends governance events to the audit_logs table.
// Rows are never updated or deleted.
type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) ports.AuditSink {
	return &auditRepository{
		db: db,
	}
}

func (r *auditRepository) Record(ctx context.Context, clubID, actorID uuid.UUID, eventType string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit data: %w", err)
	}

	query := `
		INSERT INTO audit_logs (club_id, user_id, event_type, data)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, clubID, actorID, eventType, payload); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
