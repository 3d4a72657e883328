package model

// CheckDiscountReq asks whether the caller may apply a discount of the given
// magnitude. Kind distinguishes per-product line discounts from whole-bill
// discounts.
type CheckDiscountReq struct {
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
	Kind    string  `json:"kind" validate:"required,oneof=product bill"`
}

func (r *CheckDiscountReq) Validate() error {
	return GetValidator().Struct(r)
}
