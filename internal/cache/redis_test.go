package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRemote(t *testing.T) (*Remote, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRemote(client, "cf:"), mr
}

func TestRemoteRoundTrip(t *testing.T) {
	r, mr := newRemote(t)
	ctx := context.Background()

	val, ok, err := r.Get(ctx, "missing")
	if err != nil || ok || val != nil {
		t.Fatalf("missing key should be a quiet miss, got %q %v %v", val, ok, err)
	}

	if err := SetJSON(ctx, r, "summary", map[string]string{"net": "60"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("cf:summary") {
		t.Fatalf("value not stored under the prefix, keys %v", mr.Keys())
	}
	if ttl := mr.TTL("cf:summary"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}

	var got map[string]string
	ok, err = GetJSON(ctx, r, "summary", &got)
	if err != nil || !ok || got["net"] != "60" {
		t.Fatalf("get: ok=%v err=%v got=%v", ok, err, got)
	}

	if err := r.Delete(ctx, "summary"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := r.Get(ctx, "summary"); ok {
		t.Fatalf("value should be gone after delete")
	}
}

func TestRemoteEntriesExpire(t *testing.T) {
	r, mr := newRemote(t)
	ctx := context.Background()
	if err := r.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)
	if _, ok, err := r.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expired key: ok=%v err=%v", ok, err)
	}
}

func TestRemoteSurfacesConnectionErrors(t *testing.T) {
	r, mr := newRemote(t)
	mr.Close()
	if _, _, err := r.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected an error with redis down")
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr(), 1)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_ = client.Close()

	addr := mr.Addr()
	mr.Close()
	if _, err := Connect(context.Background(), addr, 1); err == nil {
		t.Fatalf("expected connect to fail against a stopped server")
	}
}
