package authz

// routePermissions maps navigable paths to the permission required to view
// them. Lookups are exact; there is no prefix matching. Paths absent from
// the table require no permission beyond authentication.
var routePermissions = map[string]string{
	"/":                PermDashboard,
	"/empresas":        PermCompanies,
	"/clientes":        PermClients,
	"/proveedores":     PermSuppliers,
	"/transportes":     PermTransports,
	"/ventas":          PermSales,
	"/cotizaciones":    PermQuotes,
	"/ordenes-compra":  PermPurchases,
	"/tesoreria":       PermTreasury,
	"/facturacion":     PermBilling,
	"/cobranza":        PermCollections,
	"/seguimiento":     PermTracking,
	"/reportes":        PermReports,
	"/usuarios":        PermUsers,
	"/perfil":          PermProfile,
	"/api/navigation":  PermDashboard,
	"/api/admin/users": PermUsers,
	"/api/admin/roles": PermUsers,
}

// RequiredPermission returns the permission guarding a path, if any.
func RequiredPermission(path string) (string, bool) {
	perm, ok := routePermissions[path]
	return perm, ok
}
