package passcode

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStoreKeepsConcurrentCodes(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	older := Passcode{PhoneNumber: "+15551230000", Code: "123456", IssuedAt: now.Add(-time.Minute), ExpiresAt: now.Add(4 * time.Minute)}
	newer := Passcode{PhoneNumber: "+15551230000", Code: "654321", IssuedAt: now, ExpiresAt: now.Add(5 * time.Minute)}
	other := Passcode{PhoneNumber: "+15550001111", Code: "111111", IssuedAt: now, ExpiresAt: now.Add(5 * time.Minute)}

	for _, p := range []Passcode{older, newer, other} {
		if err := store.Put(ctx, p); err != nil {
			t.Fatalf("put %s: %v", p.Code, err)
		}
	}

	active, err := store.Active(ctx, "+15551230000")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 live codes, got %d", len(active))
	}
	if active[0].Code != "654321" {
		t.Fatalf("expected most recent code first, got %s", active[0].Code)
	}
}

func TestRedisStoreExpiresAtWindow(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	p := Passcode{PhoneNumber: "+15551230000", Code: "123456", IssuedAt: now, ExpiresAt: now.Add(300 * time.Second)}
	if err := store.Put(ctx, p); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(301 * time.Second)

	active, err := store.Active(ctx, "+15551230000")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected code to expire, got %d live", len(active))
	}
}

func TestRedisStoreRejectsAlreadyExpired(t *testing.T) {
	store, _ := setupRedisStore(t)

	p := Passcode{PhoneNumber: "+15551230000", Code: "123456", ExpiresAt: time.Now().UTC().Add(-time.Second)}
	if err := store.Put(context.Background(), p); err == nil {
		t.Fatal("expected error for already expired passcode")
	}
}
