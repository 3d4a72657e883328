package model

// Roles
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleStaff      = "staff"
)

// KnownRoles defines the closed role set accepted by the engine
var KnownRoles = map[string]bool{
	RoleSuperAdmin: true,
	RoleAdmin:      true,
	RoleManager:    true,
	RoleStaff:      true,
}

// Feature categories
const (
	CategoryInventory      = "inventory"
	CategoryTransactions   = "transactions"
	CategoryPatients       = "patients"
	CategoryBundles        = "bundles"
	CategorySuppliers      = "suppliers"
	CategoryBlends         = "blends"
	CategoryUserManagement = "userManagement"
	CategoryReports        = "reports"
	CategorySecurity       = "security"
	CategorySettings       = "settings"
	CategoryAppointments   = "appointments"
	CategoryContainers     = "containers"
	CategoryBrands         = "brands"
	CategoryDosageForms    = "dosageForms"
	CategoryCategories     = "categories"
	CategoryUnits          = "units"
	CategoryDocuments      = "documents"
	CategoryDiscounts      = "discounts"
)

// Discount kinds
const (
	DiscountKindProduct = "product"
	DiscountKindBill    = "bill"
)

// Audit outcomes
const (
	AuditOutcomeDenied     = "denied"
	AuditOutcomeOverridden = "overridden"
)

// Enforcement denial codes
const (
	CodeUnauthenticated         = "UNAUTHENTICATED"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
)
