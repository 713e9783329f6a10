package session

import (
	"testing"

	"EduChat/internal/endpoint"
)

func TestCredentialValidRequiresToken(t *testing.T) {
	if (Credential{}).Valid() {
		t.Fatal("empty credential must not be valid")
	}
	if !(Credential{Token: "tok"}).Valid() {
		t.Fatal("credential with token must be valid")
	}
}

func TestNewContextAssignsDistinctIDs(t *testing.T) {
	active := endpoint.Active{Label: "local", BaseURL: "http://localhost:5000"}
	a := NewContext(Credential{Token: "tok"}, active)
	b := NewContext(Credential{Token: "tok"}, active)

	if a.ID() == "" || a.ID() == b.ID() {
		t.Fatalf("expected distinct non-empty session ids, got %q and %q", a.ID(), b.ID())
	}
	if a.StartTime().IsZero() {
		t.Fatal("start time not set")
	}
}

func TestTeardownClearsSessionState(t *testing.T) {
	s := NewContext(
		Credential{Token: "tok", UserID: "u1", DisplayName: "Pat"},
		endpoint.Active{Label: "local", BaseURL: "http://localhost:5000"},
	)

	s.Teardown()

	if s.Credential().Valid() {
		t.Fatalf("credential survived teardown: %+v", s.Credential())
	}
	if s.Endpoint().BaseURL != "" {
		t.Fatalf("endpoint survived teardown: %+v", s.Endpoint())
	}
}
