package policy

import (
	"fmt"
	"sort"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

// Kind tags a capability as a boolean gate or a numeric limit.
type Kind int

const (
	KindBool Kind = iota
	KindNumeric
)

// Capability is one named permission inside a feature category.
type Capability struct {
	Name string
	Kind Kind
}

// ConfigError reports a reference to something outside the compiled catalog
// (unknown category, capability, role or predicate). It must abort startup,
// never surface at request time.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return "authz config error: " + e.Detail
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Detail: fmt.Sprintf(format, args...)}
}

// catalog is the closed capability catalog. It is compiled into the binary:
// adding a capability is a code change, and every check anywhere in the
// system must reference a pair listed here.
var catalog = map[string][]Capability{
	model.CategoryInventory: {
		{Name: "canViewProducts", Kind: KindBool},
		{Name: "canAddProducts", Kind: KindBool},
		{Name: "canEditProducts", Kind: KindBool},
		{Name: "canDeleteProducts", Kind: KindBool},
		{Name: "canViewCostPrices", Kind: KindBool},
		{Name: "canEditCostPrices", Kind: KindBool},
		{Name: "canAdjustStock", Kind: KindBool},
	},
	model.CategoryTransactions: {
		{Name: "canCreateTransactions", Kind: KindBool},
		{Name: "canViewTransactions", Kind: KindBool},
		{Name: "canVoidTransactions", Kind: KindBool},
		{Name: "canRefundTransactions", Kind: KindBool},
		{Name: "maxRefundAmount", Kind: KindNumeric},
	},
	model.CategoryPatients: {
		{Name: "canViewPatients", Kind: KindBool},
		{Name: "canAddPatients", Kind: KindBool},
		{Name: "canEditPatients", Kind: KindBool},
		{Name: "canDeletePatients", Kind: KindBool},
		{Name: "canViewMedicalHistory", Kind: KindBool},
	},
	model.CategoryBundles: {
		{Name: "canViewBundles", Kind: KindBool},
		{Name: "canAddBundles", Kind: KindBool},
		{Name: "canEditBundles", Kind: KindBool},
		{Name: "canDeleteBundles", Kind: KindBool},
	},
	model.CategorySuppliers: {
		{Name: "canViewSuppliers", Kind: KindBool},
		{Name: "canAddSuppliers", Kind: KindBool},
		{Name: "canEditSuppliers", Kind: KindBool},
		{Name: "canDeleteSuppliers", Kind: KindBool},
	},
	model.CategoryBlends: {
		{Name: "canViewBlends", Kind: KindBool},
		{Name: "canAddBlends", Kind: KindBool},
		{Name: "canEditBlends", Kind: KindBool},
		{Name: "canDeleteBlends", Kind: KindBool},
	},
	model.CategoryUserManagement: {
		{Name: "canViewUsers", Kind: KindBool},
		{Name: "canAddUsers", Kind: KindBool},
		{Name: "canEditUsers", Kind: KindBool},
		{Name: "canDeactivateUsers", Kind: KindBool},
		{Name: "canEditPermissions", Kind: KindBool},
	},
	model.CategoryReports: {
		{Name: "canViewSalesReports", Kind: KindBool},
		{Name: "canViewInventoryReports", Kind: KindBool},
		{Name: "canExportReports", Kind: KindBool},
	},
	model.CategorySecurity: {
		{Name: "canViewAuditLog", Kind: KindBool},
		{Name: "canManageRoles", Kind: KindBool},
	},
	model.CategorySettings: {
		{Name: "canEditSettings", Kind: KindBool},
		{Name: "canManageIntegrations", Kind: KindBool},
	},
	model.CategoryAppointments: {
		{Name: "canViewAppointments", Kind: KindBool},
		{Name: "canAddAppointments", Kind: KindBool},
		{Name: "canEditAppointments", Kind: KindBool},
		{Name: "canCancelAppointments", Kind: KindBool},
	},
	model.CategoryContainers: {
		{Name: "canViewContainers", Kind: KindBool},
		{Name: "canManageContainers", Kind: KindBool},
	},
	model.CategoryBrands: {
		{Name: "canViewBrands", Kind: KindBool},
		{Name: "canManageBrands", Kind: KindBool},
	},
	model.CategoryDosageForms: {
		{Name: "canViewDosageForms", Kind: KindBool},
		{Name: "canManageDosageForms", Kind: KindBool},
	},
	model.CategoryCategories: {
		{Name: "canViewCategories", Kind: KindBool},
		{Name: "canManageCategories", Kind: KindBool},
	},
	model.CategoryUnits: {
		{Name: "canViewUnits", Kind: KindBool},
		{Name: "canManageUnits", Kind: KindBool},
	},
	model.CategoryDocuments: {
		{Name: "canViewDocuments", Kind: KindBool},
		{Name: "canUploadDocuments", Kind: KindBool},
		{Name: "canDeleteDocuments", Kind: KindBool},
	},
	model.CategoryDiscounts: {
		{Name: "canApplyProductDiscounts", Kind: KindBool},
		{Name: "canApplyBillDiscounts", Kind: KindBool},
		{Name: "maxDiscountPercent", Kind: KindNumeric},
		{Name: "maxDiscountAmount", Kind: KindNumeric},
	},
}

// LookupCapability resolves a (category, capability) pair against the
// catalog. An unknown pair is a configuration error, not a denial.
func LookupCapability(category, capability string) (Kind, error) {
	caps, ok := catalog[category]
	if !ok {
		return 0, configErrorf("unknown feature category %q", category)
	}
	for _, c := range caps {
		if c.Name == capability {
			return c.Kind, nil
		}
	}
	return 0, configErrorf("unknown capability %q in category %q", capability, category)
}

// Categories returns all feature category names, sorted.
func Categories() []string {
	out := make([]string, 0, len(catalog))
	for cat := range catalog {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Capabilities returns the capability list for a category.
func Capabilities(category string) ([]Capability, error) {
	caps, ok := catalog[category]
	if !ok {
		return nil, configErrorf("unknown feature category %q", category)
	}
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out, nil
}

// defaultGrants lists the capabilities the user-management UI pre-selects
// when creating an account with a given role. These are templates only: the
// evaluator never consults them, it reads the explicit grants on the
// principal document.
var defaultGrants = map[string]map[string][]string{
	model.RoleAdmin: {
		model.CategoryInventory:      {"canViewProducts", "canAddProducts", "canEditProducts", "canDeleteProducts", "canViewCostPrices", "canEditCostPrices", "canAdjustStock"},
		model.CategoryTransactions:   {"canCreateTransactions", "canViewTransactions", "canVoidTransactions", "canRefundTransactions"},
		model.CategoryPatients:       {"canViewPatients", "canAddPatients", "canEditPatients", "canDeletePatients", "canViewMedicalHistory"},
		model.CategoryUserManagement: {"canViewUsers", "canAddUsers", "canEditUsers", "canDeactivateUsers", "canEditPermissions"},
		model.CategoryReports:        {"canViewSalesReports", "canViewInventoryReports", "canExportReports"},
		model.CategorySecurity:       {"canViewAuditLog", "canManageRoles"},
		model.CategorySettings:       {"canEditSettings", "canManageIntegrations"},
	},
	model.RoleManager: {
		model.CategoryInventory:    {"canViewProducts", "canAddProducts", "canEditProducts", "canAdjustStock"},
		model.CategoryTransactions: {"canCreateTransactions", "canViewTransactions", "canRefundTransactions"},
		model.CategoryPatients:     {"canViewPatients", "canAddPatients", "canEditPatients"},
		model.CategoryReports:      {"canViewSalesReports", "canViewInventoryReports"},
	},
	model.RoleStaff: {
		model.CategoryInventory:    {"canViewProducts"},
		model.CategoryTransactions: {"canCreateTransactions", "canViewTransactions"},
		model.CategoryPatients:     {"canViewPatients"},
	},
}

// GrantableByRole returns the default grant template for a role. super_admin
// has no template because it needs no grants.
func GrantableByRole(role string) map[string][]string {
	tmpl, ok := defaultGrants[role]
	if !ok {
		return nil
	}
	out := make(map[string][]string, len(tmpl))
	for cat, names := range tmpl {
		cp := make([]string, len(names))
		copy(cp, names)
		out[cat] = cp
	}
	return out
}
