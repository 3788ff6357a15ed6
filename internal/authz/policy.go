package authz

// Principal describes the authenticated actor as seen by access checks.
type Principal struct {
	ID          int64
	Name        string
	Email       string
	Role        string
	Roles       []string
	Permissions []string
}

// Evaluator answers permission and role queries against a principal. The
// zero value enforces normal policy; DemoMode short-circuits every check to
// granted and must only be enabled through configuration.
type Evaluator struct {
	DemoMode bool
}

// NewEvaluator constructs an Evaluator.
func NewEvaluator(demoMode bool) *Evaluator {
	return &Evaluator{DemoMode: demoMode}
}

// bypass is the single admin/wildcard rule shared by permission and role
// checks so the two cannot drift.
func bypass(p *Principal) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	for _, perm := range p.Permissions {
		if perm == Wildcard {
			return true
		}
	}
	return false
}

// HasPermission reports whether the principal holds the permission. A nil
// principal is denied everything unless demo mode is on. Unrecognised
// identifiers evaluate to false, never to an error.
func (e *Evaluator) HasPermission(p *Principal, perm string) bool {
	if e != nil && e.DemoMode {
		return true
	}
	if p == nil || perm == "" {
		return false
	}
	if bypass(p) {
		return true
	}
	if isDefaultPermission(perm) {
		return true
	}
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

// HasRole mirrors HasPermission for roles: admin implies every role, and the
// check otherwise consults the plural role list plus the coarse role field.
func (e *Evaluator) HasRole(p *Principal, role string) bool {
	if e != nil && e.DemoMode {
		return true
	}
	if p == nil || role == "" {
		return false
	}
	if bypass(p) {
		return true
	}
	if p.Role == role {
		return true
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
