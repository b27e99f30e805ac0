package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clubpool/clubpool/internal/core/ports"
)

// recordAudit appends to the audit sink best-effort. Sink failures are
// logged and swallowed; the primary operation already succeeded.
func recordAudit(ctx context.Context, sink ports.AuditSink, clubID, actorID uuid.UUID, eventType string, data map[string]any) {
	if sink == nil {
		return
	}
	if err := sink.Record(ctx, clubID, actorID, eventType, data); err != nil {
		log.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("club_id", clubID.String()).
			Msg("audit record failed")
	}
}
