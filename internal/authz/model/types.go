package model

import "time"

// CapabilitySet holds the capabilities explicitly granted to a principal
// within one feature category. Boolean capabilities live in Flags, numeric
// limits in Limits; the two namespaces never overlap for a given capability.
type CapabilitySet struct {
	Flags  map[string]bool    `bson:"flags,omitempty" json:"flags,omitempty"`
	Limits map[string]float64 `bson:"limits,omitempty" json:"limits,omitempty"`
}

// DiscountAuthorization holds a principal's discount limits.
type DiscountAuthorization struct {
	CanApplyProductDiscounts bool    `bson:"can_apply_product_discounts" json:"canApplyProductDiscounts"`
	CanApplyBillDiscounts    bool    `bson:"can_apply_bill_discounts" json:"canApplyBillDiscounts"`
	MaxDiscountPercent       float64 `bson:"max_discount_percent" json:"maxDiscountPercent"`
	MaxDiscountAmount        float64 `bson:"max_discount_amount" json:"maxDiscountAmount"`
	UnlimitedDiscounts       bool    `bson:"unlimited_discounts" json:"unlimitedDiscounts"`
}

// Principal is the authenticated actor the engine authorizes. It is created
// and updated by user management; the engine only ever reads it.
type Principal struct {
	ID                    string                   `bson:"_id" json:"id"`
	Role                  string                   `bson:"role" json:"role"`
	Active                bool                     `bson:"active" json:"active"`
	FeaturePermissions    map[string]CapabilitySet `bson:"feature_permissions,omitempty" json:"featurePermissions,omitempty"`
	DiscountAuthorization DiscountAuthorization    `bson:"discount_authorization" json:"discountAuthorization"`
	UpdatedAt             time.Time                `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// IsSuperAdmin reports whether the principal holds the top role.
func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == RoleSuperAdmin
}

// Grants returns the capability set granted for a category. The zero set is
// returned when nothing was granted, so callers never nil-check.
func (p *Principal) Grants(category string) CapabilitySet {
	if p == nil || p.FeaturePermissions == nil {
		return CapabilitySet{}
	}
	return p.FeaturePermissions[category]
}

// CapabilityRef names a (category, capability) pair.
type CapabilityRef struct {
	Category   string `json:"category"`
	Capability string `json:"capability"`
}

func (r CapabilityRef) String() string {
	return r.Category + "." + r.Capability
}

// Decision is the pure, side-effect-free result of a permission check.
type Decision struct {
	Allowed  bool           `json:"allowed"`
	Reason   string         `json:"reason,omitempty"`
	Required *CapabilityRef `json:"requiredCapability,omitempty"`
}

// OperationDescriptor identifies an inbound operation in route-registry
// terms, independent of any transport request type.
type OperationDescriptor struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// EnforcementResult is the outcome of enforcing one operation: either
// Proceed with the resolved principal attached, or Deny with a structured
// reason.
type EnforcementResult struct {
	Allowed   bool           `json:"allowed"`
	Principal *Principal     `json:"-"`
	Code      string         `json:"code,omitempty"`
	Message   string         `json:"message,omitempty"`
	Required  *CapabilityRef `json:"requiredCapability,omitempty"`
}

// Proceed builds an allow result carrying the resolved principal.
func Proceed(p *Principal) EnforcementResult {
	return EnforcementResult{Allowed: true, Principal: p}
}

// Deny builds a structured denial.
func Deny(code, message string, required *CapabilityRef) EnforcementResult {
	return EnforcementResult{Allowed: false, Code: code, Message: message, Required: required}
}

// AuditEvent records a permission denial or a sensitive-field override
// attempt. The engine creates it; durable storage is an external sink.
type AuditEvent struct {
	ID          string         `bson:"_id" json:"id"`
	PrincipalID string         `bson:"principal_id" json:"principalId"`
	Role        string         `bson:"role" json:"role"`
	Category    string         `bson:"category" json:"category"`
	Capability  string         `bson:"capability" json:"capability"`
	Outcome     string         `bson:"outcome" json:"outcome"`
	Context     map[string]any `bson:"context,omitempty" json:"context,omitempty"`
	Timestamp   time.Time      `bson:"timestamp" json:"timestamp"`
}

// ErrorDetail is the error payload body shared by all endpoints.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail for JSON responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
