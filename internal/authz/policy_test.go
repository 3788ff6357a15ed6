package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermissionAdminBypassesEverything(t *testing.T) {
	ev := NewEvaluator(false)
	admin := &Principal{ID: 1, Role: RoleAdmin}

	for _, perm := range AllPermissions() {
		assert.True(t, ev.HasPermission(admin, perm), "admin denied %q", perm)
	}
	// Identifiers outside the catalog are still granted to admins.
	assert.True(t, ev.HasPermission(admin, "no-such-permission"))
}

func TestHasPermissionWildcardToken(t *testing.T) {
	ev := NewEvaluator(false)
	p := &Principal{ID: 2, Role: "user", Permissions: []string{Wildcard}}

	assert.True(t, ev.HasPermission(p, PermTreasury))
	assert.True(t, ev.HasPermission(p, "no-such-permission"))
}

func TestHasPermissionExplicitListPlusDefaults(t *testing.T) {
	ev := NewEvaluator(false)
	p := &Principal{ID: 3, Role: "user", Permissions: []string{PermSales, PermBilling}}

	cases := []struct {
		perm string
		want bool
	}{
		{PermSales, true},
		{PermBilling, true},
		{PermDashboard, true}, // default
		{PermProfile, true},   // default
		{PermTreasury, false},
		{PermUsers, false},
		{"no-such-permission", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ev.HasPermission(p, tc.perm), "permission %q", tc.perm)
	}
}

func TestHasPermissionNilPrincipal(t *testing.T) {
	ev := NewEvaluator(false)
	for _, perm := range AllPermissions() {
		assert.False(t, ev.HasPermission(nil, perm))
	}
	assert.False(t, ev.HasPermission(nil, ""))
}

func TestDemoModeOverridesNilPrincipal(t *testing.T) {
	ev := NewEvaluator(true)
	assert.True(t, ev.HasPermission(nil, PermUsers))
	assert.True(t, ev.HasRole(nil, "manager"))
}

func TestHasRole(t *testing.T) {
	ev := NewEvaluator(false)

	admin := &Principal{ID: 1, Role: RoleAdmin}
	assert.True(t, ev.HasRole(admin, "manager"))
	assert.True(t, ev.HasRole(admin, "anything"))

	p := &Principal{ID: 2, Role: "user", Roles: []string{"manager", "treasurer"}}
	assert.True(t, ev.HasRole(p, "user"))
	assert.True(t, ev.HasRole(p, "manager"))
	assert.True(t, ev.HasRole(p, "treasurer"))
	assert.False(t, ev.HasRole(p, RoleAdmin))
	assert.False(t, ev.HasRole(p, "auditor"))

	assert.False(t, ev.HasRole(nil, "user"))
}

func TestCatalogLabels(t *testing.T) {
	label, ok := Label(PermQuotes)
	require.True(t, ok)
	assert.Equal(t, "Cotizaciones", label)

	_, ok = Label("no-such-permission")
	assert.False(t, ok)
}

func TestDefaultPermissions(t *testing.T) {
	assert.Equal(t, []string{PermDashboard, PermProfile}, DefaultPermissions())
	for _, perm := range DefaultPermissions() {
		assert.True(t, Known(perm))
	}
}
