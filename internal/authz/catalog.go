package authz

// Permission identifiers recognised by the platform. The set is closed:
// identifiers outside this list never grant access.
const (
	PermDashboard   = "dashboard"
	PermCompanies   = "companies"
	PermClients     = "clients"
	PermSuppliers   = "suppliers"
	PermTransports  = "transports"
	PermSales       = "sales"
	PermQuotes      = "quotes"
	PermPurchases   = "purchases"
	PermTreasury    = "treasury"
	PermBilling     = "billing"
	PermCollections = "collections"
	PermTracking    = "tracking"
	PermReports     = "reports"
	PermUsers       = "users"
	PermProfile     = "profile"
)

// Wildcard inside an explicit permission list grants everything.
const Wildcard = "*"

// RoleAdmin holds every permission and every role implicitly.
const RoleAdmin = "admin"

var labels = map[string]string{
	PermDashboard:   "Panel principal",
	PermCompanies:   "Empresas",
	PermClients:     "Clientes",
	PermSuppliers:   "Proveedores",
	PermTransports:  "Transportes",
	PermSales:       "Ventas",
	PermQuotes:      "Cotizaciones",
	PermPurchases:   "Órdenes de compra",
	PermTreasury:    "Tesorería",
	PermBilling:     "Facturación",
	PermCollections: "Cobranza",
	PermTracking:    "Seguimiento",
	PermReports:     "Reportes",
	PermUsers:       "Usuarios",
	PermProfile:     "Mi perfil",
}

// AllPermissions returns the closed identifier set in a stable order.
func AllPermissions() []string {
	return []string{
		PermDashboard,
		PermCompanies,
		PermClients,
		PermSuppliers,
		PermTransports,
		PermSales,
		PermQuotes,
		PermPurchases,
		PermTreasury,
		PermBilling,
		PermCollections,
		PermTracking,
		PermReports,
		PermUsers,
		PermProfile,
	}
}

// DefaultPermissions lists permissions every authenticated principal holds
// regardless of role or explicit grants.
func DefaultPermissions() []string {
	return []string{PermDashboard, PermProfile}
}

// Label returns the display label for an identifier. Unknown identifiers
// yield ok=false rather than an error.
func Label(perm string) (string, bool) {
	label, ok := labels[perm]
	return label, ok
}

// Known reports whether the identifier belongs to the catalog.
func Known(perm string) bool {
	_, ok := labels[perm]
	return ok
}

func isDefaultPermission(perm string) bool {
	for _, d := range DefaultPermissions() {
		if perm == d {
			return true
		}
	}
	return false
}
