package policy

import (
	"embed"
	"encoding/json"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

//go:embed routes/route_permissions.json
var routesFS embed.FS

// routeRuleConfig is the JSON shape of one route-permission rule. Exactly
// one of roles, category+capability, or predicate must be present.
type routeRuleConfig struct {
	Method     string   `json:"method"`
	Path       string   `json:"path"`
	Roles      []string `json:"roles,omitempty"`
	Category   string   `json:"category,omitempty"`
	Capability string   `json:"capability,omitempty"`
	Predicate  string   `json:"predicate,omitempty"`
}

// LoadDefaultRegistry builds the registry from the embedded route table.
// predicates maps the names referenced by the table to their Go
// implementations; a referenced but unregistered name is a configuration
// error. File order is registration order, so the table keeps more specific
// patterns first.
func LoadDefaultRegistry(predicates map[string]Predicate) (*Registry, error) {
	data, err := routesFS.ReadFile("routes/route_permissions.json")
	if err != nil {
		return nil, configErrorf("failed to read route permissions: %v", err)
	}

	var configs []routeRuleConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, configErrorf("failed to parse route permissions: %v", err)
	}

	reg := NewRegistry()
	for _, cfg := range configs {
		rule := RouteRule{Method: cfg.Method, Pattern: cfg.Path, Roles: cfg.Roles}
		if cfg.Category != "" || cfg.Capability != "" {
			rule.Capability = &model.CapabilityRef{Category: cfg.Category, Capability: cfg.Capability}
		}
		if cfg.Predicate != "" {
			pred, ok := predicates[cfg.Predicate]
			if !ok {
				return nil, configErrorf("route rule %s %s references unknown predicate %q", cfg.Method, cfg.Path, cfg.Predicate)
			}
			rule.Predicate = pred
		}
		if err := reg.Register(rule); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
