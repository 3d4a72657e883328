package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
	"github.com/sebastianliew/l2l-backend/internal/authz/policy"
	"github.com/sebastianliew/l2l-backend/internal/authz/service"
)

type AuthzHandler struct {
	Service *service.Service
}

func NewAuthzHandler(s *service.Service) *AuthzHandler {
	return &AuthzHandler{Service: s}
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthzHandler) extractCallerID(c echo.Context) (string, error) {
	callerID := c.Request().Header.Get("x-user-id")
	if callerID == "" {
		return "", service.ErrUnauthenticated
	}
	return callerID, nil
}

func (h *AuthzHandler) resolveCaller(c echo.Context) (*model.Principal, error) {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return nil, err
	}
	return h.Service.Resolve(c.Request().Context(), callerID)
}

// PostPermissionsCheck answers whether the caller holds one capability.
func (h *AuthzHandler) PostPermissionsCheck(c echo.Context) error {
	var req model.CheckPermissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	caller, err := h.resolveCaller(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	decision, err := h.Service.CheckPermission(c.Request().Context(), caller, req.Category, req.Capability)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, decision)
}

// PostPermissionsAllowance reports the caller's numeric allowance for a
// limit-style capability.
func (h *AuthzHandler) PostPermissionsAllowance(c echo.Context) error {
	var req model.CheckPermissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	caller, err := h.resolveCaller(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	allowance, err := h.Service.NumericAllowance(caller, req.Category, req.Capability)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	resp := model.CheckPermissionResp{Allowed: allowance > 0}
	if allowance == policy.UnlimitedAllowance {
		resp.Unlimited = true
	} else if allowance > 0 {
		resp.Allowance = &allowance
	}
	return c.JSON(http.StatusOK, resp)
}

// PostDiscountsCheck answers whether the caller may apply a discount.
func (h *AuthzHandler) PostDiscountsCheck(c echo.Context) error {
	var req model.CheckDiscountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	caller, err := h.resolveCaller(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	decision := h.Service.CheckDiscount(c.Request().Context(), caller, req.Percent, req.Amount, req.Kind)
	return c.JSON(http.StatusOK, decision)
}

// PostPermissionsEnforce is the sidecar entry point: a sibling service sends
// the operation shape it is about to perform and gets Proceed or Deny. The
// response is always 200; acting on the decision is the caller's job.
func (h *AuthzHandler) PostPermissionsEnforce(c echo.Context) error {
	var req model.EnforceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	identityRef := c.Request().Header.Get("x-user-id")
	op := model.OperationDescriptor{Method: req.Method, Path: req.Path}
	result := h.Service.Enforce(c.Request().Context(), op, identityRef)
	return c.JSON(http.StatusOK, result)
}

// PostPermissionsGuard vets a proposed update against field-level
// capabilities and returns the payload with disallowed mutations reverted.
func (h *AuthzHandler) PostPermissionsGuard(c echo.Context) error {
	var req model.GuardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	caller, err := h.resolveCaller(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	reverted, final, err := h.Service.GuardUpdate(
		c.Request().Context(), caller, req.Category, req.FieldCapabilities,
		req.EntityCollection, req.EntityID, req.Existing, req.Proposed,
	)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	if reverted == nil {
		reverted = []string{}
	}
	return c.JSON(http.StatusOK, model.GuardResp{RevertedFields: reverted, Payload: final})
}

// GetPrincipalsMe returns the caller's own resolved principal.
func (h *AuthzHandler) GetPrincipalsMe(c echo.Context) error {
	caller, err := h.resolveCaller(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, caller)
}

// catalogCapability is the wire shape of one catalog entry.
type catalogCapability struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// GetCatalog exposes the compiled capability catalog, plus the default grant
// template per role, for the user-management UI.
func (h *AuthzHandler) GetCatalog(c echo.Context) error {
	categories := make(map[string][]catalogCapability)
	for _, category := range policy.Categories() {
		caps, err := policy.Capabilities(category)
		if err != nil {
			code, body := httpError(err)
			return c.JSON(code, body)
		}
		entries := make([]catalogCapability, 0, len(caps))
		for _, spec := range caps {
			kind := "boolean"
			if spec.Kind == policy.KindNumeric {
				kind = "numeric"
			}
			entries = append(entries, catalogCapability{Name: spec.Name, Kind: kind})
		}
		categories[category] = entries
	}

	templates := make(map[string]map[string][]string)
	for role := range model.KnownRoles {
		if tmpl := policy.GrantableByRole(role); tmpl != nil {
			templates[role] = tmpl
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"categories":    categories,
		"roleTemplates": templates,
	})
}

// DeletePrincipalCache drops the cached principal entry. User management
// calls this after every role or permission mutation.
func (h *AuthzHandler) DeletePrincipalCache(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "id is required"},
		})
	}
	if err := h.Service.InvalidatePrincipal(c.Request().Context(), id); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}
