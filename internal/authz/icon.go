package authz

// Icon is a symbolic tag carried on navigation entries. Tags are resolved to
// a concrete renderable at the presentation boundary so the navigation data
// model stays free of presentation types.
type Icon string

// Icon tags used by the default navigation tree.
const (
	IconDashboard   Icon = "dashboard"
	IconBuilding    Icon = "building"
	IconPeople      Icon = "people"
	IconTruck       Icon = "truck"
	IconCart        Icon = "cart"
	IconFileText    Icon = "file-text"
	IconClipboard   Icon = "clipboard"
	IconBank        Icon = "bank"
	IconReceipt     Icon = "receipt"
	IconCoin        Icon = "coin"
	IconGeo         Icon = "geo"
	IconBarChart    Icon = "bar-chart"
	IconPersonGear  Icon = "person-gear"
	IconPersonBadge Icon = "person-badge"
)

var iconClasses = map[Icon]string{
	IconDashboard:   "bi-speedometer2",
	IconBuilding:    "bi-building",
	IconPeople:      "bi-people",
	IconTruck:       "bi-truck",
	IconCart:        "bi-cart",
	IconFileText:    "bi-file-earmark-text",
	IconClipboard:   "bi-clipboard-check",
	IconBank:        "bi-bank",
	IconReceipt:     "bi-receipt",
	IconCoin:        "bi-coin",
	IconGeo:         "bi-geo-alt",
	IconBarChart:    "bi-bar-chart",
	IconPersonGear:  "bi-person-gear",
	IconPersonBadge: "bi-person-badge",
}

// Class resolves the tag to its CSS class. Unknown tags resolve to a neutral
// placeholder instead of failing.
func (i Icon) Class() string {
	if class, ok := iconClasses[i]; ok {
		return class
	}
	return "bi-circle"
}
