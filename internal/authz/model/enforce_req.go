package model

// EnforceReq is the sidecar-style entry point: a sibling service forwards the
// operation shape it is about to perform and receives Proceed or Deny.
type EnforceReq struct {
	Method string `json:"method" validate:"required"`
	Path   string `json:"path" validate:"required,startswith=/"`
}

func (r *EnforceReq) Validate() error {
	return GetValidator().Struct(r)
}
