package loom

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestInstanceCache_GetOrCreate(t *testing.T) {
	cache := newInstanceCache()

	calls := 0
	build := func() (any, error) {
		calls++
		return "instance", nil
	}

	first, err := cache.getOrCreate("svc", build)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cache.getOrCreate("svc", build)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected one build, got %d", calls)
	}
	if first != second {
		t.Error("expected identical instance from both calls")
	}
}

func TestInstanceCache_FailedBuildNotCached(t *testing.T) {
	cache := newInstanceCache()

	boom := errors.New("boom")
	calls := 0

	_, err := cache.getOrCreate("svc", func() (any, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}

	if _, ok := cache.get("svc"); ok {
		t.Error("failed build must not be cached")
	}
	if cache.len() != 0 {
		t.Errorf("expected no built entries, got %d", cache.len())
	}

	// Next attempt retries the build.
	value, err := cache.getOrCreate("svc", func() (any, error) {
		calls++
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "recovered" || calls != 2 {
		t.Errorf("expected retry to build, got value=%v calls=%d", value, calls)
	}
}

func TestInstanceCache_Get(t *testing.T) {
	cache := newInstanceCache()

	if _, ok := cache.get("absent"); ok {
		t.Error("expected false for absent entry")
	}

	if _, err := cache.getOrCreate("svc", func() (any, error) { return 42, nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, ok := cache.get("svc")
	if !ok || value != 42 {
		t.Errorf("expected (42, true), got (%v, %v)", value, ok)
	}
}

func TestInstanceCache_DrainReverseOrder(t *testing.T) {
	cache := newInstanceCache()

	for _, name := range []string{"first", "second", "third"} {
		name := name
		if _, err := cache.getOrCreate(name, func() (any, error) { return name, nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	drained := cache.drain()
	if len(drained) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(drained))
	}
	for i, want := range []string{"third", "second", "first"} {
		if drained[i] != want {
			t.Errorf("position %d: expected %q, got %v", i, want, drained[i])
		}
	}

	if cache.len() != 0 {
		t.Error("expected cache to be empty after drain")
	}
	if again := cache.drain(); len(again) != 0 {
		t.Errorf("expected second drain to return nothing, got %d", len(again))
	}
}

func TestInstanceCache_ConcurrentGetOrCreate(t *testing.T) {
	cache := newInstanceCache()

	var builds atomic.Int64
	var wg sync.WaitGroup

	start := make(chan struct{})
	results := make([]any, 50)

	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			value, err := cache.getOrCreate("shared", func() (any, error) {
				builds.Add(1)
				return &struct{ n int }{n: 1}, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results[idx] = value
		}(i)
	}

	close(start)
	wg.Wait()

	if builds.Load() != 1 {
		t.Errorf("expected exactly one build, got %d", builds.Load())
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("expected every caller to observe the same instance")
		}
	}
}
