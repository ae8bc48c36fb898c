package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyCheckAndSetNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if exists {
		t.Fatalf("expected new key to not exist")
	}
	if existing != nil {
		t.Fatalf("expected no existing value, got %s", existing)
	}
}

func TestIdempotencyCheckAndSetDuplicate(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", []byte(`{"id":"sale-1"}`), time.Minute); err != nil {
		t.Fatalf("first CheckAndSet failed: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("second CheckAndSet failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected duplicate key to exist")
	}
	if string(existing) != `{"id":"sale-1"}` {
		t.Fatalf("unexpected stored response: %s", existing)
	}
}

func TestIdempotencyUpdateReplacesPlaceholder(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if err := store.Update(ctx, "key-1", []byte(`{"id":"payout-1"}`), time.Minute); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet after update failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected key to exist after update")
	}
	if string(existing) != `{"id":"payout-1"}` {
		t.Fatalf("unexpected stored response: %s", existing)
	}
}
