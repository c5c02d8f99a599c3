package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateNonPositiveWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		expected := runtime.GOMAXPROCS(0)
		if pool.Workers() != expected {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d (GOMAXPROCS)", n, pool.Workers(), expected)
		}
		pool.Close()
	}
}

// =============================================================================
// ExecuteAll Tests
// =============================================================================

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	work := make([]func(), numTasks)
	for i := range work {
		work[i] = func() {
			counter.Add(1)
		}
	}

	if err := pool.ExecuteAll(work); err != nil {
		t.Fatalf("ExecuteAll() error = %v", err)
	}

	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_ExecuteAll_Empty(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Should not panic or block
	if err := pool.ExecuteAll(nil); err != nil {
		t.Errorf("ExecuteAll(nil) error = %v", err)
	}
	if err := pool.ExecuteAll([]func(){}); err != nil {
		t.Errorf("ExecuteAll(empty) error = %v", err)
	}
}

func TestWorkerPool_ExecuteAll_Single(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	var ran atomic.Bool
	err := pool.ExecuteAll([]func(){
		func() { ran.Store(true) },
	})
	if err != nil {
		t.Fatalf("ExecuteAll() error = %v", err)
	}
	if !ran.Load() {
		t.Error("work item did not run")
	}
}

// =============================================================================
// ForRange Tests
// =============================================================================

func TestWorkerPool_ForRange(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		chunk int
	}{
		{"exact chunks", 256, 64},
		{"ragged tail", 1000, 64},
		{"chunk larger than range", 10, 64},
		{"single index chunks", 50, 1},
		{"default chunk", 32400, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(4)
			defer pool.Close()

			visits := make([]int32, tt.n)
			err := pool.ForRange(tt.n, tt.chunk, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&visits[i], 1)
				}
			})
			if err != nil {
				t.Fatalf("ForRange() error = %v", err)
			}

			for i, v := range visits {
				if v != 1 {
					t.Fatalf("index %d visited %d times, want 1", i, v)
				}
			}
		})
	}
}

func TestWorkerPool_ForRange_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	called := false
	for _, n := range []int{0, -1} {
		if err := pool.ForRange(n, 8, func(lo, hi int) { called = true }); err != nil {
			t.Errorf("ForRange(%d) error = %v", n, err)
		}
	}
	if called {
		t.Error("ForRange called fn for an empty range")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestWorkerPool_Close(t *testing.T) {
	pool := NewWorkerPool(4)

	if !pool.IsRunning() {
		t.Error("Pool should be running before close")
	}

	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after close")
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(4)

	// Multiple closes should not panic
	pool.Close()
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after close")
	}
}

func TestWorkerPool_OperationsAfterClose(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()

	var executed atomic.Bool

	err := pool.ExecuteAll([]func(){
		func() { executed.Store(true) },
	})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("ExecuteAll() after Close error = %v, want ErrClosed", err)
	}
	if err := pool.ForRange(10, 2, func(lo, hi int) { executed.Store(true) }); !errors.Is(err, ErrClosed) {
		t.Errorf("ForRange() after Close error = %v, want ErrClosed", err)
	}
	if err := pool.ForRange(0, 2, func(lo, hi int) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("ForRange(0) after Close error = %v, want ErrClosed", err)
	}

	// Give time for potential incorrect execution
	time.Sleep(50 * time.Millisecond)

	if executed.Load() {
		t.Error("Work was executed on closed pool")
	}
}

// Close racing with submitters must neither lose queued work nor leave a
// submitter waiting forever: every call either runs all of its items or
// returns ErrClosed having run none.
func TestWorkerPool_CloseDuringSubmit(t *testing.T) {
	for range 50 {
		pool := NewWorkerPool(2)

		const submitters = 8
		const items = 200
		counts := make([]atomic.Int64, submitters)
		errs := make([]error, submitters)

		var wg sync.WaitGroup
		wg.Add(submitters)
		for s := range submitters {
			go func() {
				defer wg.Done()
				work := make([]func(), items)
				for i := range work {
					work[i] = func() { counts[s].Add(1) }
				}
				errs[s] = pool.ExecuteAll(work)
			}()
		}

		go pool.Close()

		finished := make(chan struct{})
		go func() {
			wg.Wait()
			close(finished)
		}()
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("ExecuteAll did not return after Close")
		}
		pool.Close()

		for s := range submitters {
			got := counts[s].Load()
			switch {
			case errs[s] == nil && got != items:
				t.Fatalf("submitter %d: ran %d of %d items with nil error", s, got, items)
			case errors.Is(errs[s], ErrClosed) && got != 0:
				t.Fatalf("submitter %d: ran %d items but returned ErrClosed", s, got)
			case errs[s] != nil && !errors.Is(errs[s], ErrClosed):
				t.Fatalf("submitter %d: error = %v", s, errs[s])
			}
		}
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestWorkerPool_Concurrent(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numGoroutines := 10
	numTasksPerGoroutine := 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for range numGoroutines {
		go func() {
			defer wg.Done()

			work := make([]func(), numTasksPerGoroutine)
			for i := range work {
				work[i] = func() {
					counter.Add(1)
				}
			}

			if err := pool.ExecuteAll(work); err != nil {
				t.Errorf("ExecuteAll() error = %v", err)
			}
		}()
	}

	wg.Wait()

	expected := int64(numGoroutines * numTasksPerGoroutine)
	if counter.Load() != expected {
		t.Errorf("counter = %d, want %d", counter.Load(), expected)
	}
}

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Uneven work, like blocks inside the set next to blocks that escape at once.
	var fastCount, slowCount atomic.Int64

	work := make([]func(), 100)
	for i := range work {
		if i%10 == 0 {
			work[i] = func() {
				time.Sleep(10 * time.Millisecond)
				slowCount.Add(1)
			}
		} else {
			work[i] = func() {
				fastCount.Add(1)
			}
		}
	}

	start := time.Now()
	if err := pool.ExecuteAll(work); err != nil {
		t.Fatalf("ExecuteAll() error = %v", err)
	}
	elapsed := time.Since(start)

	if slowCount.Load() != 10 {
		t.Errorf("slowCount = %d, want 10", slowCount.Load())
	}
	if fastCount.Load() != 90 {
		t.Errorf("fastCount = %d, want 90", fastCount.Load())
	}

	t.Logf("Elapsed time: %v (work stealing should help)", elapsed)
}

func TestWorkerPool_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for range 5 {
		pool := NewWorkerPool(4)
		_ = pool.ForRange(1000, 16, func(lo, hi int) {})
		pool.Close()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	final := runtime.NumGoroutine()

	// Allow for some variance (test framework goroutines, etc.)
	if final > baseline+2 {
		t.Errorf("goroutine count: baseline=%d, final=%d (leak detected)", baseline, final)
	}
}

func BenchmarkWorkerPool_ForRange(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	sink := make([]float32, 32400)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.ForRange(len(sink), DefaultChunk, func(lo, hi int) {
			for j := lo; j < hi; j++ {
				sink[j]++
			}
		})
	}
}
