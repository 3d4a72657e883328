package model

// GuardReq asks the engine to vet a proposed update against field-level
// capabilities. Either Existing is supplied inline, or EntityCollection and
// EntityID name the document to snapshot before diffing.
type GuardReq struct {
	Category          string            `json:"category" validate:"required"`
	FieldCapabilities map[string]string `json:"field_capabilities" validate:"required,min=1"`
	EntityCollection  string            `json:"entity_collection,omitempty"`
	EntityID          string            `json:"entity_id,omitempty"`
	Existing          map[string]any    `json:"existing,omitempty"`
	Proposed          map[string]any    `json:"proposed" validate:"required"`
}

func (r *GuardReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return err
	}
	if r.Existing == nil && (r.EntityCollection == "" || r.EntityID == "") {
		return &ErrorDetail{Code: "bad_request", Message: "either existing or entity_collection+entity_id is required"}
	}
	return nil
}

// Error lets ErrorDetail double as a validation error for Validate methods
// that fail outside validator tags.
func (e *ErrorDetail) Error() string {
	return e.Message
}

// GuardResp returns the vetted payload and which fields were reverted.
type GuardResp struct {
	RevertedFields []string       `json:"reverted_fields"`
	Payload        map[string]any `json:"payload"`
}
