package repository

import (
	"context"
	"errors"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

// ErrNotFound is returned when an id resolves to no document.
var ErrNotFound = errors.New("record not found")

// PrincipalStore reads principal records. The engine never writes them; user
// management owns the documents.
type PrincipalStore interface {
	GetPrincipalByID(ctx context.Context, id string) (*model.Principal, error)
}

// PrincipalCacheInvalidator is implemented by stores that cache principals.
// User management must invalidate after every role or permission change; a
// stale entry that still grants revoked access is a correctness bug.
type PrincipalCacheInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// AuditSink records audit events. Failures are the caller's to swallow: a
// sink error must never fail the enforced operation.
type AuditSink interface {
	Record(ctx context.Context, event *model.AuditEvent) error
}

// EntityStateReader loads the current field values of a business entity so
// the sensitive-field guard can diff a proposed update against them.
type EntityStateReader interface {
	GetCurrentState(ctx context.Context, collection, entityID string) (map[string]any, error)
}
