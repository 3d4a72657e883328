package policy

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

func TestCatalogLookup(t *testing.T) {
	t.Run("boolean capability", func(t *testing.T) {
		kind, err := LookupCapability(model.CategoryInventory, "canEditCostPrices")
		require.NoError(t, err)
		assert.Equal(t, KindBool, kind)
	})

	t.Run("numeric capability", func(t *testing.T) {
		kind, err := LookupCapability(model.CategoryDiscounts, "maxDiscountPercent")
		require.NoError(t, err)
		assert.Equal(t, KindNumeric, kind)
	})

	t.Run("unknown capability", func(t *testing.T) {
		_, err := LookupCapability(model.CategoryInventory, "canTeleport")
		assert.Error(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := LookupCapability("shipping", "canViewProducts")
		assert.Error(t, err)
	})
}

func TestCategoriesAreClosedAndSorted(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 18)
	assert.True(t, sort.StringsAreSorted(cats))

	expected := []string{
		model.CategoryInventory, model.CategoryTransactions, model.CategoryPatients,
		model.CategoryBundles, model.CategorySuppliers, model.CategoryBlends,
		model.CategoryUserManagement, model.CategoryReports, model.CategorySecurity,
		model.CategorySettings, model.CategoryAppointments, model.CategoryContainers,
		model.CategoryBrands, model.CategoryDosageForms, model.CategoryCategories,
		model.CategoryUnits, model.CategoryDocuments, model.CategoryDiscounts,
	}
	for _, cat := range expected {
		assert.Contains(t, cats, cat)
	}
}

func TestCapabilitiesReturnsCopy(t *testing.T) {
	caps, err := Capabilities(model.CategoryUnits)
	require.NoError(t, err)
	require.NotEmpty(t, caps)

	caps[0].Name = "mutated"

	again, err := Capabilities(model.CategoryUnits)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Name)
}

func TestGrantTemplatesReferenceCatalogPairs(t *testing.T) {
	for _, role := range []string{model.RoleAdmin, model.RoleManager, model.RoleStaff} {
		t.Run(role, func(t *testing.T) {
			tmpl := GrantableByRole(role)
			require.NotNil(t, tmpl)
			for category, names := range tmpl {
				for _, name := range names {
					_, err := LookupCapability(category, name)
					assert.NoError(t, err, "template for %s references %s.%s", role, category, name)
				}
			}
		})
	}

	t.Run("super_admin has no template", func(t *testing.T) {
		assert.Nil(t, GrantableByRole(model.RoleSuperAdmin))
	})

	t.Run("template is a copy", func(t *testing.T) {
		tmpl := GrantableByRole(model.RoleStaff)
		tmpl[model.CategoryInventory][0] = "mutated"
		again := GrantableByRole(model.RoleStaff)
		assert.NotEqual(t, "mutated", again[model.CategoryInventory][0])
	})
}
