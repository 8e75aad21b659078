package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakescan/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	type payload struct{ Name string }

	if err := cache.Set(ctx, "key1", &payload{Name: "Dassai 23"}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	got, ok := value.(*payload)
	if !ok {
		t.Fatalf("Get() value type = %T, want *payload", value)
	}
	if got.Name != "Dassai 23" {
		t.Errorf("Name = %s, want Dassai 23", got.Name)
	}
}

func TestMemoryCache_GetMissing(t *testing.T) {
	cache := NewMemoryCache()

	_, err := cache.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", "value", 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, err := cache.Get(ctx, "key1")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss after expiry", err)
	}

	exists, err := cache.Exists(ctx, "key1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true, want false after expiry")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "key1", "value", time.Minute)

	if err := cache.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := cache.Get(ctx, "key1")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss after delete", err)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "key1")
	if err != nil || exists {
		t.Errorf("Exists() = (%v, %v), want (false, nil)", exists, err)
	}

	cache.Set(ctx, "key1", "value", time.Minute)

	exists, err = cache.Exists(ctx, "key1")
	if err != nil || !exists {
		t.Errorf("Exists() = (%v, %v), want (true, nil)", exists, err)
	}
}

func TestMemoryCache_Size(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0", cache.Size())
	}

	cache.Set(ctx, "a", 1, time.Minute)
	cache.Set(ctx, "b", 2, time.Minute)

	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				cache.Set(ctx, "shared", n, time.Minute)
				cache.Get(ctx, "shared")
				cache.Exists(ctx, "shared")
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
