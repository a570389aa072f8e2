package report

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/gcp"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

func TestCacheLookupOnce(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(proj("proj-123"), "Alpha", folder("fld-9"))
	cache := NewCache(dir)

	ctx := context.Background()
	var first gcp.Resource
	for i := 0; i < 5; i++ {
		res, err := cache.Lookup(ctx, proj("proj-123"))
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if i == 0 {
			first = res
		} else if res != first {
			t.Errorf("Lookup() returned %+v, want cached %+v", res, first)
		}
	}

	if got := dir.callCount(proj("proj-123")); got != 1 {
		t.Errorf("directory called %d times, want 1", got)
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("cache.Len() = %d, want 1", got)
	}
}

func TestCacheCachesFailures(t *testing.T) {
	dir := newFakeDirectory()
	cache := NewCache(dir)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cache.Lookup(ctx, proj("gone"))
		if !errors.Is(err, gcp.ErrNotResolved) {
			t.Fatalf("Lookup() error = %v, want ErrNotResolved", err)
		}
	}
	if got := dir.callCount(proj("gone")); got != 1 {
		t.Errorf("directory called %d times for a failing key, want 1", got)
	}
}

// blockingDirectory parks every lookup until release is closed.
type blockingDirectory struct {
	release chan struct{}
	calls   int32
}

func (d *blockingDirectory) Lookup(_ context.Context, ref model.ResourceRef) (gcp.Resource, error) {
	atomic.AddInt32(&d.calls, 1)
	<-d.release
	return gcp.Resource{DisplayName: "Alpha"}, nil
}

func TestCacheSingleFlight(t *testing.T) {
	dir := &blockingDirectory{release: make(chan struct{})}
	cache := NewCache(dir)
	ctx := context.Background()

	const callers = 10
	var wg sync.WaitGroup
	results := make(chan gcp.Resource, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := cache.Lookup(ctx, proj("proj-123"))
			if err != nil {
				t.Errorf("Lookup() error = %v", err)
				return
			}
			results <- res
		}()
	}

	// Give the callers time to pile up behind the single in-flight lookup.
	time.Sleep(10 * time.Millisecond)
	close(dir.release)
	wg.Wait()
	close(results)

	if got := atomic.LoadInt32(&dir.calls); got != 1 {
		t.Errorf("directory called %d times under concurrency, want 1", got)
	}
	for res := range results {
		if res.DisplayName != "Alpha" {
			t.Errorf("caller got %+v, want the shared result", res)
		}
	}
}

func TestCacheWaiterHonorsContext(t *testing.T) {
	dir := &blockingDirectory{release: make(chan struct{})}
	defer close(dir.release)
	cache := NewCache(dir)

	go cache.Lookup(context.Background(), proj("proj-123"))
	for atomic.LoadInt32(&dir.calls) == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Lookup(ctx, proj("proj-123"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Lookup() with canceled context error = %v, want context.Canceled", err)
	}
}
