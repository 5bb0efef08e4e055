package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/storecraft-backend/pkg/config"
	redisclient "github.com/angelmondragon/storecraft-backend/pkg/redis"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := redisclient.New(context.Background(), config.RedisConfig{
		URL: "redis://" + srv.Addr(),
	}, nil)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	mgr, err := NewManager(client, config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storecraft",
		Audience:          "storecraft-clients",
		ExpirationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return mgr, srv
}

func TestSessionLifecycle(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	if err := mgr.Create(ctx, "jti-1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	has, err := mgr.Has(ctx, "jti-1")
	if err != nil {
		t.Fatalf("has failed: %v", err)
	}
	if !has {
		t.Fatal("expected active session")
	}

	if err := mgr.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	has, err = mgr.Has(ctx, "jti-1")
	if err != nil {
		t.Fatalf("has after revoke failed: %v", err)
	}
	if has {
		t.Fatal("expected session to be gone after revoke")
	}
}

func TestSessionExpiresWithToken(t *testing.T) {
	mgr, srv := newTestManager(t)
	ctx := context.Background()

	if err := mgr.Create(ctx, "jti-2"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	srv.FastForward(61 * time.Minute)

	has, err := mgr.Has(ctx, "jti-2")
	if err != nil {
		t.Fatalf("has failed: %v", err)
	}
	if has {
		t.Fatal("expected expired session to be absent")
	}
}

func TestSessionVersion(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	version, err := mgr.CurrentVersion(ctx, 7)
	if err != nil {
		t.Fatalf("current version failed: %v", err)
	}
	if version != 0 {
		t.Fatalf("expected version 0 for new user, got %d", version)
	}

	bumped, err := mgr.BumpVersion(ctx, 7)
	if err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if bumped != 1 {
		t.Fatalf("expected version 1 after bump, got %d", bumped)
	}

	version, err = mgr.CurrentVersion(ctx, 7)
	if err != nil {
		t.Fatalf("current version failed: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}
}

func TestCreateRejectsEmptyTokenID(t *testing.T) {
	mgr, _ := newTestManager(t)
	if err := mgr.Create(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank token id")
	}
}
