package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

// MockPrincipalStore is a mock implementation of repository.PrincipalStore.
type MockPrincipalStore struct {
	mock.Mock
}

func (m *MockPrincipalStore) GetPrincipalByID(ctx context.Context, id string) (*model.Principal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}

// MockEntityReader is a mock implementation of repository.EntityStateReader.
type MockEntityReader struct {
	mock.Mock
}

func (m *MockEntityReader) GetCurrentState(ctx context.Context, collection, entityID string) (map[string]any, error) {
	args := m.Called(ctx, collection, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// capturingAuditSink records every event it receives, optionally failing.
type capturingAuditSink struct {
	mu     sync.Mutex
	events []*model.AuditEvent
	err    error
}

func (s *capturingAuditSink) Record(ctx context.Context, event *model.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *capturingAuditSink) Events() []*model.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

// blockingStore never answers until the context expires; used to verify the
// enforcement path fails closed on a principal-store timeout.
type blockingStore struct{}

func (blockingStore) GetPrincipalByID(ctx context.Context, id string) (*model.Principal, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// invalidatingStore tracks Invalidate calls.
type invalidatingStore struct {
	MockPrincipalStore
	mu          sync.Mutex
	invalidated []string
}

func (s *invalidatingStore) Invalidate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, id)
	return nil
}
