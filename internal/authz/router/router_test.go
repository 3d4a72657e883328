package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastianliew/l2l-backend/internal/authz/handler"
	"github.com/sebastianliew/l2l-backend/internal/authz/model"
	"github.com/sebastianliew/l2l-backend/internal/authz/policy"
	"github.com/sebastianliew/l2l-backend/internal/authz/repository"
	"github.com/sebastianliew/l2l-backend/internal/authz/service"
)

type staticStore struct {
	principals map[string]*model.Principal
}

func (s *staticStore) GetPrincipalByID(ctx context.Context, id string) (*model.Principal, error) {
	p, ok := s.principals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	reg, err := policy.LoadDefaultRegistry(map[string]policy.Predicate{
		"self_or_user_admin": func(p *model.Principal, op model.OperationDescriptor) bool {
			return strings.HasSuffix(op.Path, "/"+p.ID)
		},
	})
	require.NoError(t, err)

	store := &staticStore{principals: map[string]*model.Principal{
		"admin1": {ID: "admin1", Role: model.RoleAdmin, Active: true,
			FeaturePermissions: map[string]model.CapabilitySet{
				model.CategoryUserManagement: {Flags: map[string]bool{"canEditPermissions": true}},
			}},
		"staff1": {ID: "staff1", Role: model.RoleStaff, Active: true},
	}}

	svc := service.NewService(
		store, nil, repository.NopAuditSink{}, policy.NewEngine(), reg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		service.Options{},
	)

	e := echo.New()
	RegisterRoutes(e, handler.NewAuthzHandler(svc), handler.NewAuthzMiddleware(svc))
	return e
}

func do(e *echo.Echo, method, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if userID != "" {
		req.Header.Set("x-user-id", userID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	e := newTestRouter(t)
	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDecisionEndpointsSkipEnforcement(t *testing.T) {
	e := newTestRouter(t)

	// staff1 holds no grants at all, yet may still ask about itself.
	rec := do(e, http.MethodGet, "/api/v1/principals/me", "staff1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/permissions/catalog", "staff1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheInvalidationIsEnforced(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodDelete, "/api/v1/principals/staff1/cache", "staff1")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodDelete, "/api/v1/principals/staff1/cache", "admin1")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, "/api/v1/principals/staff1/cache", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
