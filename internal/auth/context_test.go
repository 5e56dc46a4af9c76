package auth

import (
	"context"
	"testing"

	"github.com/stockroom/stockroom/internal/model"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	id := &model.Identity{UserID: "u1", TenantID: "t1", Email: "a@b.test"}
	ctx := ContextWithIdentity(context.Background(), id)

	got := IdentityFromContext(ctx)
	if got == nil {
		t.Fatal("IdentityFromContext() = nil, want identity")
	}
	if got.UserID != "u1" || got.TenantID != "t1" || got.Email != "a@b.test" {
		t.Errorf("identity = %+v, want %+v", got, id)
	}
}

func TestIdentityFromContextMissing(t *testing.T) {
	if got := IdentityFromContext(context.Background()); got != nil {
		t.Errorf("IdentityFromContext() = %+v, want nil", got)
	}
}

func TestMustIdentityFromContextPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing identity")
		}
	}()
	MustIdentityFromContext(context.Background())
}

func TestTokenContextRoundTrip(t *testing.T) {
	ctx := ContextWithToken(context.Background(), "st_01HV9K7W3MZXQ4T8R2B6DYFGAC")
	if got := TokenFromContext(ctx); got != "st_01HV9K7W3MZXQ4T8R2B6DYFGAC" {
		t.Errorf("TokenFromContext() = %q", got)
	}
	if got := TokenFromContext(context.Background()); got != "" {
		t.Errorf("TokenFromContext() on empty context = %q, want empty", got)
	}
}
