package authz

// Entry is a single navigable item. Permission may be left empty, in which
// case the route map supplies the requirement.
type Entry struct {
	Title      string `json:"title"`
	Path       string `json:"path"`
	Icon       Icon   `json:"icon"`
	Permission string `json:"permission,omitempty"`
}

// Subgroup is a collapsible cluster of entries inside a group.
type Subgroup struct {
	Label   string  `json:"label"`
	Icon    Icon    `json:"icon"`
	Entries []Entry `json:"entries"`
}

// Group is a labelled section of the navigation tree.
type Group struct {
	Label     string     `json:"label"`
	Entries   []Entry    `json:"entries,omitempty"`
	Subgroups []Subgroup `json:"subgroups,omitempty"`
}

// DefaultTree returns the full navigation tree of the ERP. The tree is plain
// data; visibility is decided by FilterTree.
func DefaultTree() []Group {
	return []Group{
		{
			Label: "Principal",
			Entries: []Entry{
				{Title: "Panel principal", Path: "/", Icon: IconDashboard, Permission: PermDashboard},
			},
		},
		{
			Label: "Directorios",
			Entries: []Entry{
				{Title: "Empresas", Path: "/empresas", Icon: IconBuilding, Permission: PermCompanies},
				{Title: "Clientes", Path: "/clientes", Icon: IconPeople, Permission: PermClients},
				{Title: "Proveedores", Path: "/proveedores", Icon: IconPeople, Permission: PermSuppliers},
				{Title: "Transportes", Path: "/transportes", Icon: IconTruck, Permission: PermTransports},
			},
		},
		{
			Label: "Procesos",
			Entries: []Entry{
				{Title: "Ventas", Path: "/ventas", Icon: IconCart, Permission: PermSales},
				{Title: "Cotizaciones", Path: "/cotizaciones", Icon: IconFileText, Permission: PermQuotes},
				{Title: "Órdenes de compra", Path: "/ordenes-compra", Icon: IconClipboard, Permission: PermPurchases},
			},
			Subgroups: []Subgroup{
				{
					Label: "Finanzas",
					Icon:  IconBank,
					Entries: []Entry{
						{Title: "Tesorería", Path: "/tesoreria", Icon: IconBank, Permission: PermTreasury},
						{Title: "Facturación", Path: "/facturacion", Icon: IconReceipt, Permission: PermBilling},
						{Title: "Cobranza", Path: "/cobranza", Icon: IconCoin, Permission: PermCollections},
					},
				},
			},
		},
		{
			Label: "Consultas",
			Entries: []Entry{
				{Title: "Seguimiento", Path: "/seguimiento", Icon: IconGeo, Permission: PermTracking},
				{Title: "Reportes", Path: "/reportes", Icon: IconBarChart, Permission: PermReports},
			},
		},
		{
			Label: "Administración",
			Entries: []Entry{
				{Title: "Usuarios", Path: "/usuarios", Icon: IconPersonGear, Permission: PermUsers},
				{Title: "Mi perfil", Path: "/perfil", Icon: IconPersonBadge, Permission: PermProfile},
			},
		},
	}
}

// FilterTree narrows the tree to what the principal may see. Admins get the
// tree back unmodified. Otherwise entries survive when their permission is a
// default permission or is held explicitly; groups left without entries and
// subgroups are dropped. Input order is preserved and the input tree is
// never mutated.
func (e *Evaluator) FilterTree(tree []Group, p *Principal) []Group {
	if (e != nil && e.DemoMode) || bypass(p) {
		return tree
	}
	filtered := make([]Group, 0, len(tree))
	for _, group := range tree {
		keep := Group{Label: group.Label}
		for _, entry := range group.Entries {
			if e.entryVisible(entry, p) {
				keep.Entries = append(keep.Entries, entry)
			}
		}
		for _, sub := range group.Subgroups {
			keepSub := Subgroup{Label: sub.Label, Icon: sub.Icon}
			for _, entry := range sub.Entries {
				if e.entryVisible(entry, p) {
					keepSub.Entries = append(keepSub.Entries, entry)
				}
			}
			if len(keepSub.Entries) > 0 {
				keep.Subgroups = append(keep.Subgroups, keepSub)
			}
		}
		if len(keep.Entries) > 0 || len(keep.Subgroups) > 0 {
			filtered = append(filtered, keep)
		}
	}
	return filtered
}

func (e *Evaluator) entryVisible(entry Entry, p *Principal) bool {
	perm := entry.Permission
	if perm == "" {
		mapped, ok := RequiredPermission(entry.Path)
		if !ok {
			// Unguarded path: visible to any authenticated principal.
			return p != nil
		}
		perm = mapped
	}
	return e.HasPermission(p, perm)
}
