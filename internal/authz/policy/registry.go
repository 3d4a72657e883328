package policy

import (
	"strings"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

// Predicate is a custom rule requirement, invoked with the resolved
// principal and the operation being enforced.
type Predicate func(p *model.Principal, op model.OperationDescriptor) bool

// RouteRule maps an operation shape to its requirement. Exactly one of
// Roles, Capability or Predicate is set: a role list satisfies the rule
// outright, a capability pair defers to the evaluator, a predicate decides
// itself.
type RouteRule struct {
	Method     string
	Pattern    string
	Roles      []string
	Capability *model.CapabilityRef
	Predicate  Predicate
}

// HasRole reports whether role is in the rule's allowed set.
func (r *RouteRule) HasRole(role string) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

type segment struct {
	literal     string
	placeholder bool
}

type compiledRule struct {
	rule     *RouteRule
	segments []segment
}

// Registry holds route-permission rules. Registration is configuration-time
// only; at steady state the registry is immutable and safe for concurrent
// lookups. Registration order is precedence order for patterned rules, so
// the owner registers more specific patterns first.
type Registry struct {
	exact   map[string]*RouteRule
	ordered []compiledRule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{exact: make(map[string]*RouteRule)}
}

// Register validates and adds a rule. Validation failures are configuration
// errors and must abort startup.
func (reg *Registry) Register(rule RouteRule) error {
	if err := validateRule(&rule); err != nil {
		return err
	}

	rule.Method = strings.ToUpper(rule.Method)
	segments, hasPlaceholder, err := compilePattern(rule.Pattern)
	if err != nil {
		return err
	}

	r := rule
	if !hasPlaceholder {
		key := r.Method + ":" + r.Pattern
		if _, dup := reg.exact[key]; dup {
			return configErrorf("duplicate route rule for %s", key)
		}
		reg.exact[key] = &r
		return nil
	}

	reg.ordered = append(reg.ordered, compiledRule{rule: &r, segments: segments})
	return nil
}

// RegisterFunc adds a custom-predicate rule.
func (reg *Registry) RegisterFunc(method, pattern string, pred Predicate) error {
	return reg.Register(RouteRule{Method: method, Pattern: pattern, Predicate: pred})
}

// Lookup finds the rule for an operation: exact literal match first, then
// patterned rules in registration order. nil means no explicit rule exists.
func (reg *Registry) Lookup(method, path string) *RouteRule {
	method = strings.ToUpper(method)
	if rule, ok := reg.exact[method+":"+path]; ok {
		return rule
	}

	parts := splitPath(path)
	for i := range reg.ordered {
		cr := &reg.ordered[i]
		if cr.rule.Method != method {
			continue
		}
		if matchSegments(cr.segments, parts) {
			return cr.rule
		}
	}
	return nil
}

// Len returns the number of registered rules.
func (reg *Registry) Len() int {
	return len(reg.exact) + len(reg.ordered)
}

func validateRule(rule *RouteRule) error {
	if rule.Method == "" || rule.Pattern == "" {
		return configErrorf("route rule requires method and pattern, got %q %q", rule.Method, rule.Pattern)
	}
	if !strings.HasPrefix(rule.Pattern, "/") {
		return configErrorf("route pattern %q must start with /", rule.Pattern)
	}

	set := 0
	if len(rule.Roles) > 0 {
		set++
		for _, role := range rule.Roles {
			if !model.KnownRoles[role] {
				return configErrorf("route rule %s %s references unknown role %q", rule.Method, rule.Pattern, role)
			}
		}
	}
	if rule.Capability != nil {
		set++
		if _, err := LookupCapability(rule.Capability.Category, rule.Capability.Capability); err != nil {
			return configErrorf("route rule %s %s: %v", rule.Method, rule.Pattern, err)
		}
	}
	if rule.Predicate != nil {
		set++
	}
	if set != 1 {
		return configErrorf("route rule %s %s must carry exactly one of roles, capability or predicate", rule.Method, rule.Pattern)
	}
	return nil
}

// compilePattern splits a pattern once at registration time into segment
// matchers. A {name} segment matches any single literal segment; there is no
// partial-segment matching and no regex.
func compilePattern(pattern string) ([]segment, bool, error) {
	parts := splitPath(pattern)
	segments := make([]segment, 0, len(parts))
	hasPlaceholder := false
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			if len(part) == 2 {
				return nil, false, configErrorf("empty placeholder in pattern %q", pattern)
			}
			segments = append(segments, segment{placeholder: true})
			hasPlaceholder = true
			continue
		}
		if strings.Contains(part, "{") || strings.Contains(part, "}") {
			return nil, false, configErrorf("malformed segment %q in pattern %q", part, pattern)
		}
		segments = append(segments, segment{literal: part})
	}
	return segments, hasPlaceholder, nil
}

// matchSegments requires equal segment count and exact literal match on
// every non-placeholder segment.
func matchSegments(segments []segment, parts []string) bool {
	if len(segments) != len(parts) {
		return false
	}
	for i, seg := range segments {
		if seg.placeholder {
			continue
		}
		if seg.literal != parts[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
