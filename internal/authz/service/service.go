package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
	"github.com/sebastianliew/l2l-backend/internal/authz/policy"
	"github.com/sebastianliew/l2l-backend/internal/authz/repository"
)

// Options bound the engine's two external I/O paths and set the policy for
// routes without an explicit rule.
type Options struct {
	PrincipalReadTimeout time.Duration
	AuditWriteTimeout    time.Duration
	AllowUnmatchedRoutes bool
}

// Service wires the evaluator, registry, principal store and audit sink into
// the enforcement entry point and the decision API. It holds no mutable
// state beyond the warn-once set for unmatched routes; all dependencies are
// injected, never global.
type Service struct {
	store    repository.PrincipalStore
	entities repository.EntityStateReader
	audit    repository.AuditSink
	engine   *policy.Engine
	registry *policy.Registry
	logger   *slog.Logger
	opts     Options

	unmatchedSeen sync.Map
}

func NewService(
	store repository.PrincipalStore,
	entities repository.EntityStateReader,
	audit repository.AuditSink,
	engine *policy.Engine,
	registry *policy.Registry,
	logger *slog.Logger,
	opts Options,
) *Service {
	if opts.PrincipalReadTimeout <= 0 {
		opts.PrincipalReadTimeout = 3 * time.Second
	}
	if opts.AuditWriteTimeout <= 0 {
		opts.AuditWriteTimeout = 2 * time.Second
	}
	return &Service{
		store:    store,
		entities: entities,
		audit:    audit,
		engine:   engine,
		registry: registry,
		logger:   logger,
		opts:     opts,
	}
}

// Engine exposes the pure evaluator for in-handler checks that already hold
// a resolved principal.
func (s *Service) Engine() *policy.Engine {
	return s.engine
}

// Enforce is the enforcement entry point: resolve the principal, look up the
// route rule, evaluate, and either Proceed with the principal attached or
// Deny. Any principal-store failure, including a timeout, denies: the
// enforcement path fails closed.
func (s *Service) Enforce(ctx context.Context, op model.OperationDescriptor, identityRef string) model.EnforcementResult {
	p, err := s.Resolve(ctx, identityRef)
	if err != nil {
		if err != ErrUnauthenticated && err != ErrPrincipalNotFound && err != ErrPrincipalInactive {
			s.logger.Error("principal resolution failed, denying", "error", err)
		}
		return model.Deny(model.CodeUnauthenticated, "Unauthorized", nil)
	}

	// Top role skips the registry entirely; mirrors the evaluator's first
	// precedence rule.
	if p.IsSuperAdmin() {
		return model.Proceed(p)
	}

	rule := s.registry.Lookup(op.Method, op.Path)
	if rule == nil {
		key := op.Method + ":" + op.Path
		if _, seen := s.unmatchedSeen.LoadOrStore(key, struct{}{}); !seen {
			s.logger.Warn("no route-permission rule, applying default",
				"method", op.Method, "path", op.Path, "default_allow", s.opts.AllowUnmatchedRoutes)
		}
		if s.opts.AllowUnmatchedRoutes {
			return model.Proceed(p)
		}
		return s.deny(ctx, p, op, model.Decision{Reason: "no route rule"})
	}

	switch {
	case len(rule.Roles) > 0:
		if rule.HasRole(p.Role) {
			return model.Proceed(p)
		}
		return s.deny(ctx, p, op, model.Decision{Reason: "role not permitted"})

	case rule.Capability != nil:
		d, err := s.engine.Decide(p, rule.Capability.Category, rule.Capability.Capability)
		if err != nil {
			// Registry validation makes this unreachable; deny anyway.
			s.logger.Error("capability check failed", "error", err)
			return s.deny(ctx, p, op, model.Decision{Reason: "configuration error"})
		}
		if d.Allowed {
			return model.Proceed(p)
		}
		return s.deny(ctx, p, op, d)

	default:
		if rule.Predicate(p, op) {
			return model.Proceed(p)
		}
		return s.deny(ctx, p, op, model.Decision{Reason: "predicate not satisfied"})
	}
}

// CheckPermission evaluates one capability for a resolved principal and
// records the denial when it denies.
func (s *Service) CheckPermission(ctx context.Context, p *model.Principal, category, capability string) (model.Decision, error) {
	d, err := s.engine.Decide(p, category, capability)
	if err != nil {
		return model.Decision{}, err
	}
	if !d.Allowed {
		s.emitAudit(ctx, p, category, capability, model.AuditOutcomeDenied, map[string]any{
			"reason": d.Reason,
		})
	}
	return d, nil
}

// NumericAllowance reports the granted limit for a numeric capability.
func (s *Service) NumericAllowance(p *model.Principal, category, capability string) (float64, error) {
	return s.engine.NumericAllowance(p, category, capability)
}

// CheckDiscount evaluates a requested discount and records denials.
func (s *Service) CheckDiscount(ctx context.Context, p *model.Principal, percent, amount float64, kind string) model.Decision {
	d := s.engine.CheckDiscount(p, percent, amount, kind)
	if !d.Allowed {
		capability := "canApplyProductDiscounts"
		if d.Required != nil {
			capability = d.Required.Capability
		}
		s.emitAudit(ctx, p, model.CategoryDiscounts, capability, model.AuditOutcomeDenied, map[string]any{
			"reason":  d.Reason,
			"percent": percent,
			"amount":  amount,
			"kind":    kind,
		})
	}
	return d
}

// GuardUpdate runs the sensitive-field guard over a proposed update. When
// existing is nil the current entity state is snapshotted from the store.
// One overridden audit event is emitted per reverted field; the update as a
// whole is never rejected here.
func (s *Service) GuardUpdate(
	ctx context.Context,
	p *model.Principal,
	category string,
	fieldCaps map[string]string,
	collection, entityID string,
	existing map[string]any,
	proposed map[string]any,
) ([]string, map[string]any, error) {
	if existing == nil {
		state, err := s.entities.GetCurrentState(ctx, collection, entityID)
		if err != nil {
			return nil, nil, err
		}
		existing = state
	}

	reverted, final, err := s.engine.GuardSensitiveFields(p, category, fieldCaps, existing, proposed)
	if err != nil {
		return nil, nil, err
	}

	for _, field := range reverted {
		s.emitAudit(ctx, p, category, fieldCaps[field], model.AuditOutcomeOverridden, map[string]any{
			"field":     field,
			"entity_id": entityID,
		})
	}
	return reverted, final, nil
}

func (s *Service) deny(ctx context.Context, p *model.Principal, op model.OperationDescriptor, d model.Decision) model.EnforcementResult {
	category, capability := "", ""
	if d.Required != nil {
		category, capability = d.Required.Category, d.Required.Capability
	}
	s.emitAudit(ctx, p, category, capability, model.AuditOutcomeDenied, map[string]any{
		"method": op.Method,
		"path":   op.Path,
		"reason": d.Reason,
	})

	msg := d.Reason
	if msg == "" {
		msg = "You do not have permission to perform this action"
	}
	return model.Deny(model.CodeInsufficientPermissions, msg, d.Required)
}

// emitAudit records an event, fire-and-forget: the write is bounded,
// detached from request cancellation, and a failure is logged and dropped.
func (s *Service) emitAudit(ctx context.Context, p *model.Principal, category, capability, outcome string, eventCtx map[string]any) {
	event := &model.AuditEvent{
		ID:          uuid.NewString(),
		PrincipalID: p.ID,
		Role:        p.Role,
		Category:    category,
		Capability:  capability,
		Outcome:     outcome,
		Context:     eventCtx,
		Timestamp:   time.Now().UTC(),
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.AuditWriteTimeout)
	defer cancel()

	if err := s.audit.Record(wctx, event); err != nil {
		s.logger.Error("audit write failed, dropping event",
			"error", err, "principal_id", p.ID, "outcome", outcome)
	}
}
