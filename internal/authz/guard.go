package authz

// ConnStatus describes reachability of the backing stores, orthogonal to
// whether a principal is authenticated.
type ConnStatus string

const (
	StatusChecking     ConnStatus = "checking"
	StatusConnected    ConnStatus = "connected"
	StatusDisconnected ConnStatus = "disconnected"
)

// SessionState is the snapshot guards evaluate against. It is assembled per
// request; guards never reach into ambient globals.
type SessionState struct {
	Status        ConnStatus
	Loading       bool
	Authenticated bool
	Principal     *Principal
}

// Decision is the outcome of a guard evaluation.
type Decision int

const (
	// DecisionChildren allows the guarded content through.
	DecisionChildren Decision = iota
	// DecisionLoading asks the caller to show a loading indicator.
	DecisionLoading
	// DecisionFallback asks the caller to show its fallback panel.
	DecisionFallback
	// DecisionRedirectLogin sends the actor to the login route, preserving
	// the originally requested location.
	DecisionRedirectLogin
	// DecisionRedirectHome sends an already authenticated actor home.
	DecisionRedirectHome
)

// String names the decision for logs and metrics labels.
func (d Decision) String() string {
	switch d {
	case DecisionChildren:
		return "children"
	case DecisionLoading:
		return "loading"
	case DecisionFallback:
		return "fallback"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// RequireAuth guards a private route. Precedence is loading, then connection
// status, then authentication: a loading state must resolve before anything
// is shown, and an unreachable backend yields a retryable fallback rather
// than a login redirect.
func RequireAuth(state SessionState) Decision {
	if state.Loading || state.Status == StatusChecking {
		return DecisionLoading
	}
	if state.Status == StatusDisconnected {
		return DecisionFallback
	}
	if state.Authenticated {
		return DecisionChildren
	}
	return DecisionRedirectLogin
}

// RedirectIfAuthenticated guards public-only routes such as login. A
// disconnected backend renders children: the login page must stay usable
// through a transient outage.
func RedirectIfAuthenticated(state SessionState) Decision {
	if state.Loading || state.Status == StatusChecking {
		return DecisionLoading
	}
	if state.Status == StatusDisconnected {
		return DecisionChildren
	}
	if state.Authenticated {
		return DecisionRedirectHome
	}
	return DecisionChildren
}

// Gate decides visibility of a permission-gated subtree. While loading it
// always reports loading, never the fallback, so a denial is never flashed
// before permissions are known.
func (e *Evaluator) Gate(state SessionState, perm string) Decision {
	if state.Loading || state.Status == StatusChecking {
		return DecisionLoading
	}
	if e.HasPermission(state.Principal, perm) {
		return DecisionChildren
	}
	return DecisionFallback
}
