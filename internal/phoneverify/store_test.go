package phoneverify

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	ch := Challenge{ID: "c1", Phone: "+15550100100", CodeHash: "h", ExpiresAt: time.Now().UTC().Add(time.Minute)}

	store.Put(ctx, ch)
	got, ok := store.Get(ctx, "c1")
	if !ok {
		t.Fatal("Get should find the challenge after Put")
	}
	if got.Phone != ch.Phone || got.CodeHash != "h" {
		t.Errorf("got = %+v", got)
	}

	store.Delete(ctx, "c1")
	if _, ok := store.Get(ctx, "c1"); ok {
		t.Error("Get should miss after Delete")
	}
	store.Delete(ctx, "missing")
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Put(ctx, Challenge{ID: "c1", ExpiresAt: time.Now().UTC().Add(time.Minute)})

	got, _ := store.Get(ctx, "c1")
	got.Attempts = 3
	again, _ := store.Get(ctx, "c1")
	if again.Attempts != 0 {
		t.Errorf("Attempts = %d, store should not be mutated through Get", again.Attempts)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.nowF = func() time.Time { return now }

	store.Put(ctx, Challenge{ID: "old", ExpiresAt: now.Add(-time.Second)})
	store.Put(ctx, Challenge{ID: "fresh", ExpiresAt: now.Add(time.Minute)})

	// Put sweeps before inserting, so "old" is already gone once "fresh" is stored.
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}
	now = now.Add(2 * time.Minute)
	if n := store.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Minute)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			store.Put(ctx, Challenge{ID: id, ExpiresAt: exp})
			store.Get(ctx, id)
			if i%3 == 0 {
				store.Delete(ctx, id)
			}
		}(i)
	}
	wg.Wait()
}
