package model

// CheckPermissionReq asks whether the caller holds one capability.
type CheckPermissionReq struct {
	Category   string `json:"category" validate:"required"`
	Capability string `json:"capability" validate:"required"`
}

func (r *CheckPermissionReq) Validate() error {
	return GetValidator().Struct(r)
}

// CheckPermissionResp carries the decision plus, for numeric capabilities,
// the granted allowance. Unlimited is set instead of Allowance when the
// caller's role places no bound on the value.
type CheckPermissionResp struct {
	Allowed   bool           `json:"allowed"`
	Reason    string         `json:"reason,omitempty"`
	Required  *CapabilityRef `json:"requiredCapability,omitempty"`
	Allowance *float64       `json:"allowance,omitempty"`
	Unlimited bool           `json:"unlimited,omitempty"`
}
