package repository

import (
	"context"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

// NopAuditSink discards events. Used in tests and when no audit collection
// is configured.
type NopAuditSink struct{}

func (NopAuditSink) Record(ctx context.Context, event *model.AuditEvent) error {
	return nil
}
