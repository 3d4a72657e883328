package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
	"github.com/sebastianliew/l2l-backend/internal/authz/policy"
	"github.com/sebastianliew/l2l-backend/internal/authz/repository"
	"github.com/sebastianliew/l2l-backend/internal/authz/service"
)

// mapStore serves principals from a fixture map.
type mapStore struct {
	principals map[string]*model.Principal
}

func (s *mapStore) GetPrincipalByID(ctx context.Context, id string) (*model.Principal, error) {
	p, ok := s.principals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

// mapEntities serves entity snapshots from a fixture map keyed
// "collection/id".
type mapEntities struct {
	states map[string]map[string]any
}

func (s *mapEntities) GetCurrentState(ctx context.Context, collection, entityID string) (map[string]any, error) {
	state, ok := s.states[collection+"/"+entityID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return state, nil
}

type fixture struct {
	svc     *service.Service
	handler *AuthzHandler
	sink    *recordingSink
}

type recordingSink struct {
	events []*model.AuditEvent
}

func (s *recordingSink) Record(ctx context.Context, event *model.AuditEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newFixture(t *testing.T, principals map[string]*model.Principal, reg *policy.Registry) *fixture {
	t.Helper()
	if reg == nil {
		reg = policy.NewRegistry()
	}
	sink := &recordingSink{}
	svc := service.NewService(
		&mapStore{principals: principals},
		&mapEntities{states: map[string]map[string]any{
			"products/p1": {"name": "Paracetamol 500mg", "costPrice": 4.2, "stock": int64(100)},
		}},
		sink,
		policy.NewEngine(),
		reg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		service.Options{},
	)
	return &fixture{svc: svc, handler: NewAuthzHandler(svc), sink: sink}
}

func doJSON(t *testing.T, e *echo.Echo, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != "" {
		req.Header.Set("x-user-id", userID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func staffWith(t *testing.T, grants map[string]model.CapabilitySet) map[string]*model.Principal {
	t.Helper()
	require.NotNil(t, grants)
	return map[string]*model.Principal{
		"staff1": {ID: "staff1", Role: model.RoleStaff, Active: true, FeaturePermissions: grants},
	}
}
