package common

import (
	"context"
	"testing"
)

func TestUserContextRoundTrip(t *testing.T) {
	uc := &UserContext{UserID: "dev:kari", AuthMethod: "dev", Name: "Kari Nordmann"}
	ctx := WithUserContext(context.Background(), uc)

	got := UserContextFromContext(ctx)
	if got == nil {
		t.Fatal("expected user context, got nil")
	}
	if got.UserID != "dev:kari" || got.AuthMethod != "dev" {
		t.Errorf("unexpected user context: %+v", got)
	}

	if id := ResolveUserID(ctx); id != "dev:kari" {
		t.Errorf("ResolveUserID = %q, want %q", id, "dev:kari")
	}
}

func TestUserContextAbsent(t *testing.T) {
	ctx := context.Background()
	if uc := UserContextFromContext(ctx); uc != nil {
		t.Errorf("expected nil user context, got %+v", uc)
	}
	if id := ResolveUserID(ctx); id != "" {
		t.Errorf("ResolveUserID on empty context = %q, want empty", id)
	}
}
