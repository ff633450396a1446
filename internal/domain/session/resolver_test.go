package session

import (
	"context"
	"errors"
	"testing"

	"case-portal/internal/ports/auth"
)

// -------------------------
// Test token resolver
// -------------------------

var errBadToken = errors.New("resolver: bad token")

type testTokens struct {
	byToken map[string]auth.Claims
}

func (t *testTokens) Resolve(ctx context.Context, token string) (auth.Claims, error) {
	c, ok := t.byToken[token]
	if !ok {
		return auth.Claims{}, errBadToken
	}
	return c, nil
}

func newResolver() *Resolver {
	return NewResolver(&testTokens{byToken: map[string]auth.Claims{
		"tok-claimant": {UserID: "1", Username: "ana", Role: auth.RoleClaimant},
		"tok-gp":       {UserID: "2", Username: "dr.gomez", Role: auth.RoleGP},
		"tok-admin":    {UserID: "3", Username: "root", Role: auth.RoleAdmin},
	}})
}

// -------------------------
// Tests
// -------------------------

func TestIsAuthenticated(t *testing.T) {
	r := newResolver()

	if r.IsAuthenticated("") {
		t.Fatalf("empty token should not be authenticated")
	}
	if r.IsAuthenticated("   ") {
		t.Fatalf("blank token should not be authenticated")
	}
	// presencia alcanza, la validez se decide en Admit
	if !r.IsAuthenticated("garbage") {
		t.Fatalf("present token should count as authenticated")
	}
}

func TestAdmit_TruthTable(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	tests := []struct {
		name     string
		required []auth.Role
		token    string
		allow    bool
	}{
		{"role in set", []auth.Role{auth.RoleClaimant}, "tok-claimant", true},
		{"role in larger set", []auth.Role{auth.RoleGP, auth.RoleAdmin}, "tok-admin", true},
		{"role not in set", []auth.Role{auth.RoleAdmin}, "tok-gp", false},
		{"empty token", []auth.Role{auth.RoleClaimant}, "", false},
		{"undecodable token", []auth.Role{auth.RoleClaimant}, "garbage", false},
		{"empty required set", nil, "tok-claimant", false},
	}

	for _, tc := range tests {
		claims, ok := r.Admit(ctx, tc.required, tc.token)
		if ok != tc.allow {
			t.Fatalf("%s: expected allow=%v, got %v", tc.name, tc.allow, ok)
		}
		if !ok && claims != (auth.Claims{}) {
			t.Fatalf("%s: deny should not leak claims, got %#v", tc.name, claims)
		}
	}
}

func TestResolveRole_PropagatesDecodeError(t *testing.T) {
	r := newResolver()

	role, err := r.ResolveRole(context.Background(), "tok-gp")
	if err != nil {
		t.Fatalf("ResolveRole error: %v", err)
	}
	if role != auth.RoleGP {
		t.Fatalf("expected gp, got %s", role)
	}

	if _, err := r.ResolveRole(context.Background(), "garbage"); !errors.Is(err, errBadToken) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
