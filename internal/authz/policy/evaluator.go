package policy

import (
	"fmt"
	"math"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

// UnlimitedAllowance is the numeric allowance reported for principals whose
// role places no bound on the value.
const UnlimitedAllowance = math.MaxFloat64

// Engine is the permission evaluator. It is pure: every method reads only
// its arguments and the compiled catalog, so concurrent use needs no
// locking.
type Engine struct{}

// NewEngine creates a new evaluator instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Decide evaluates one capability check. Precedence, first match wins:
//  1. super_admin is allowed unconditionally, no grant required.
//  2. An explicit grant (truthy flag, positive limit) allows.
//  3. Otherwise deny, naming the missing pair.
//
// Below super_admin there is no implicit inheritance from role: a capability
// added to the catalog is denied to every existing account until it is
// explicitly granted.
func (e *Engine) Decide(p *model.Principal, category, capability string) (model.Decision, error) {
	kind, err := LookupCapability(category, capability)
	if err != nil {
		return model.Decision{}, err
	}

	if p.IsSuperAdmin() {
		return model.Decision{Allowed: true}, nil
	}

	grants := p.Grants(category)
	switch kind {
	case KindBool:
		if grants.Flags[capability] {
			return model.Decision{Allowed: true}, nil
		}
	case KindNumeric:
		if grants.Limits[capability] > 0 {
			return model.Decision{Allowed: true}, nil
		}
	}

	ref := &model.CapabilityRef{Category: category, Capability: capability}
	return model.Decision{
		Allowed:  false,
		Reason:   fmt.Sprintf("missing %s.%s", category, capability),
		Required: ref,
	}, nil
}

// HasPermission is the boolean convenience over Decide.
func (e *Engine) HasPermission(p *model.Principal, category, capability string) (bool, error) {
	d, err := e.Decide(p, category, capability)
	if err != nil {
		return false, err
	}
	return d.Allowed, nil
}

// NumericAllowance returns the granted limit for a numeric capability, 0 when
// nothing is granted, or UnlimitedAllowance for super_admin.
func (e *Engine) NumericAllowance(p *model.Principal, category, capability string) (float64, error) {
	kind, err := LookupCapability(category, capability)
	if err != nil {
		return 0, err
	}
	if kind != KindNumeric {
		return 0, configErrorf("capability %s.%s is not numeric", category, capability)
	}
	if p.IsSuperAdmin() {
		return UnlimitedAllowance, nil
	}
	return p.Grants(category).Limits[capability], nil
}

// CheckDiscount evaluates a requested discount against the principal's
// discount authorization. Zero or negative requested values always pass: a
// no-op update must not require a grant.
func (e *Engine) CheckDiscount(p *model.Principal, percent, amount float64, kind string) model.Decision {
	if percent <= 0 && amount <= 0 {
		return model.Decision{Allowed: true, Reason: "no discount requested"}
	}

	auth := p.DiscountAuthorization
	if p.IsSuperAdmin() || auth.UnlimitedDiscounts {
		return model.Decision{Allowed: true}
	}

	var gate bool
	var gateCap string
	switch kind {
	case model.DiscountKindProduct:
		gate, gateCap = auth.CanApplyProductDiscounts, "canApplyProductDiscounts"
	case model.DiscountKindBill:
		gate, gateCap = auth.CanApplyBillDiscounts, "canApplyBillDiscounts"
	default:
		return model.Decision{Allowed: false, Reason: fmt.Sprintf("unknown discount kind %q", kind)}
	}
	if !gate {
		return model.Decision{
			Allowed:  false,
			Reason:   "discount type not permitted",
			Required: &model.CapabilityRef{Category: model.CategoryDiscounts, Capability: gateCap},
		}
	}

	if percent > auth.MaxDiscountPercent {
		return model.Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("discount percent %.2f exceeds limit %.2f", percent, auth.MaxDiscountPercent),
			Required: &model.CapabilityRef{
				Category:   model.CategoryDiscounts,
				Capability: "maxDiscountPercent",
			},
		}
	}
	if amount > auth.MaxDiscountAmount {
		return model.Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("discount amount %.2f exceeds limit %.2f", amount, auth.MaxDiscountAmount),
			Required: &model.CapabilityRef{
				Category:   model.CategoryDiscounts,
				Capability: "maxDiscountAmount",
			},
		}
	}

	return model.Decision{Allowed: true}
}
