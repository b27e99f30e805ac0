package ports

import (
	"context"

	"github.com/google/uuid"
)

// AuditSink is an append-only, best-effort log of governance events.
// Callers must never fail their primary operation because a Record
// call failed.
type AuditSink interface {
	Record(ctx context.Context, clubID, actorID uuid.UUID, eventType string, data map[string]any) error
}
