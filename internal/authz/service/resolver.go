package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
	"github.com/sebastianliew/l2l-backend/internal/authz/repository"
)

// Resolve loads the principal for an already-authenticated identity
// reference. It performs no authentication. The store read is bounded by the
// configured timeout; on timeout the error propagates and every caller fails
// closed.
func (s *Service) Resolve(ctx context.Context, identityRef string) (*model.Principal, error) {
	if identityRef == "" {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.PrincipalReadTimeout)
	defer cancel()

	p, err := s.store.GetPrincipalByID(ctx, identityRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("principal store read: %w", err)
	}
	if !p.Active {
		return nil, ErrPrincipalInactive
	}
	return p, nil
}

// InvalidatePrincipal drops any cached copy of a principal. User management
// calls this after every role or permission mutation. A no-op when the store
// does not cache.
func (s *Service) InvalidatePrincipal(ctx context.Context, id string) error {
	inv, ok := s.store.(repository.PrincipalCacheInvalidator)
	if !ok {
		return nil
	}
	return inv.Invalidate(ctx, id)
}
