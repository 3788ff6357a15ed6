package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAuthDecisions(t *testing.T) {
	cases := []struct {
		name  string
		state SessionState
		want  Decision
	}{
		{"loading wins over everything", SessionState{Loading: true, Status: StatusConnected, Authenticated: true}, DecisionLoading},
		{"checking counts as loading", SessionState{Status: StatusChecking}, DecisionLoading},
		{"disconnected yields retry fallback", SessionState{Status: StatusDisconnected, Authenticated: true}, DecisionFallback},
		{"authenticated renders children", SessionState{Status: StatusConnected, Authenticated: true}, DecisionChildren},
		{"unauthenticated redirects to login", SessionState{Status: StatusConnected}, DecisionRedirectLogin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RequireAuth(tc.state))
		})
	}
}

func TestRedirectIfAuthenticatedDecisions(t *testing.T) {
	cases := []struct {
		name  string
		state SessionState
		want  Decision
	}{
		{"loading", SessionState{Loading: true}, DecisionLoading},
		{"disconnected keeps public page usable", SessionState{Status: StatusDisconnected}, DecisionChildren},
		{"authenticated goes home", SessionState{Status: StatusConnected, Authenticated: true}, DecisionRedirectHome},
		{"unauthenticated renders children", SessionState{Status: StatusConnected}, DecisionChildren},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RedirectIfAuthenticated(tc.state))
		})
	}
}

func TestGateNeverFlashesDenialWhileLoading(t *testing.T) {
	ev := NewEvaluator(false)

	state := SessionState{Loading: true, Status: StatusConnected}
	assert.Equal(t, DecisionLoading, ev.Gate(state, PermUsers))

	state = SessionState{Status: StatusChecking}
	assert.Equal(t, DecisionLoading, ev.Gate(state, PermUsers))
}

func TestGateGrantAndFallback(t *testing.T) {
	ev := NewEvaluator(false)
	p := &Principal{ID: 1, Role: "user", Permissions: []string{PermSales}}

	granted := SessionState{Status: StatusConnected, Authenticated: true, Principal: p}
	assert.Equal(t, DecisionChildren, ev.Gate(granted, PermSales))
	assert.Equal(t, DecisionFallback, ev.Gate(granted, PermUsers))

	anonymous := SessionState{Status: StatusConnected}
	assert.Equal(t, DecisionFallback, ev.Gate(anonymous, PermSales))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "children", DecisionChildren.String())
	assert.Equal(t, "redirect_login", DecisionRedirectLogin.String())
	assert.Equal(t, "unknown", Decision(99).String())
}
