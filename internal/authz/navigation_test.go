package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureTree() []Group {
	return []Group{
		{
			Label: "Principal",
			Entries: []Entry{
				{Title: "Panel principal", Path: "/", Icon: IconDashboard, Permission: PermDashboard},
			},
		},
		{
			Label: "Procesos",
			Entries: []Entry{
				{Title: "Ventas", Path: "/ventas", Icon: IconCart, Permission: PermSales},
				{Title: "Cotizaciones", Path: "/cotizaciones", Icon: IconFileText, Permission: PermQuotes},
			},
		},
	}
}

func TestFilterTreeKeepsGrantedAndDefaults(t *testing.T) {
	ev := NewEvaluator(false)
	p := &Principal{ID: 1, Role: "user", Permissions: []string{PermSales}}

	filtered := ev.FilterTree(fixtureTree(), p)

	require.Len(t, filtered, 2)
	assert.Equal(t, "Principal", filtered[0].Label)
	require.Len(t, filtered[0].Entries, 1)
	assert.Equal(t, "Panel principal", filtered[0].Entries[0].Title)

	assert.Equal(t, "Procesos", filtered[1].Label)
	require.Len(t, filtered[1].Entries, 1)
	assert.Equal(t, "Ventas", filtered[1].Entries[0].Title)
}

func TestFilterTreeDropsEmptyGroups(t *testing.T) {
	ev := NewEvaluator(false)
	// No sales permission either: the whole Procesos group disappears.
	p := &Principal{ID: 1, Role: "user"}

	filtered := ev.FilterTree(fixtureTree(), p)

	require.Len(t, filtered, 1)
	assert.Equal(t, "Principal", filtered[0].Label)
}

func TestFilterTreeAdminShortCircuit(t *testing.T) {
	ev := NewEvaluator(false)
	admin := &Principal{ID: 1, Role: RoleAdmin}

	tree := fixtureTree()
	filtered := ev.FilterTree(tree, admin)

	assert.Equal(t, tree, filtered)
}

func TestFilterTreeIdempotent(t *testing.T) {
	ev := NewEvaluator(false)
	p := &Principal{ID: 1, Role: "user", Permissions: []string{PermSales, PermTreasury}}

	once := ev.FilterTree(DefaultTree(), p)
	twice := ev.FilterTree(once, p)

	assert.Equal(t, once, twice)
}

func TestFilterTreePreservesOrder(t *testing.T) {
	ev := NewEvaluator(false)
	p := &Principal{ID: 1, Role: "user", Permissions: []string{PermSales, PermQuotes}}

	filtered := ev.FilterTree(fixtureTree(), p)

	require.Len(t, filtered, 2)
	require.Len(t, filtered[1].Entries, 2)
	assert.Equal(t, "Ventas", filtered[1].Entries[0].Title)
	assert.Equal(t, "Cotizaciones", filtered[1].Entries[1].Title)
}

func TestFilterTreeDoesNotMutateInput(t *testing.T) {
	ev := NewEvaluator(false)
	p := &Principal{ID: 1, Role: "user", Permissions: []string{PermSales}}

	tree := fixtureTree()
	_ = ev.FilterTree(tree, p)

	assert.Equal(t, fixtureTree(), tree)
}

func TestFilterTreeSubgroups(t *testing.T) {
	ev := NewEvaluator(false)
	tree := []Group{
		{
			Label: "Procesos",
			Subgroups: []Subgroup{
				{
					Label: "Finanzas",
					Icon:  IconBank,
					Entries: []Entry{
						{Title: "Tesorería", Path: "/tesoreria", Permission: PermTreasury},
						{Title: "Cobranza", Path: "/cobranza", Permission: PermCollections},
					},
				},
			},
		},
	}

	p := &Principal{ID: 1, Role: "user", Permissions: []string{PermCollections}}
	filtered := ev.FilterTree(tree, p)
	require.Len(t, filtered, 1)
	require.Len(t, filtered[0].Subgroups, 1)
	require.Len(t, filtered[0].Subgroups[0].Entries, 1)
	assert.Equal(t, "Cobranza", filtered[0].Subgroups[0].Entries[0].Title)

	// Without any finance permission the subgroup and its group vanish.
	none := &Principal{ID: 2, Role: "user", Permissions: []string{PermSales}}
	assert.Empty(t, ev.FilterTree(tree, none))
}

func TestFilterTreeFallsBackToRouteMap(t *testing.T) {
	ev := NewEvaluator(false)
	tree := []Group{
		{
			Label: "Procesos",
			Entries: []Entry{
				// No permission on the entry: the route map supplies it.
				{Title: "Ventas", Path: "/ventas"},
			},
		},
	}

	granted := &Principal{ID: 1, Role: "user", Permissions: []string{PermSales}}
	require.Len(t, ev.FilterTree(tree, granted), 1)

	denied := &Principal{ID: 2, Role: "user"}
	assert.Empty(t, ev.FilterTree(tree, denied))
}

func TestDefaultTreeEntriesMatchRouteMap(t *testing.T) {
	for _, group := range DefaultTree() {
		for _, entry := range group.Entries {
			perm, ok := RequiredPermission(entry.Path)
			require.True(t, ok, "path %s missing from route map", entry.Path)
			assert.Equal(t, entry.Permission, perm, "path %s", entry.Path)
		}
		for _, sub := range group.Subgroups {
			for _, entry := range sub.Entries {
				perm, ok := RequiredPermission(entry.Path)
				require.True(t, ok, "path %s missing from route map", entry.Path)
				assert.Equal(t, entry.Permission, perm, "path %s", entry.Path)
			}
		}
	}
}
