package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fetchResult struct {
	err error
}

func (r *fetchResult) GetError() error {
	return r.err
}

type fetchJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32
}

func (j *fetchJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &fetchResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &fetchResult{err: errors.New("source unavailable")}
	}
	return &fetchResult{}
}

func TestNewPool_MinimumWorkers(t *testing.T) {
	if p := NewPool(context.Background(), 4); p.workers != 4 {
		t.Errorf("expected 4 workers, got %d", p.workers)
	}
	if p := NewPool(context.Background(), 0); p.workers != 1 {
		t.Errorf("expected 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool(context.Background(), -3); p.workers != 1 {
		t.Errorf("expected 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_AllJobsComplete(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var executed int32
	count := 10
	for i := 0; i < count; i++ {
		pool.Submit(&fetchJob{executed: &executed})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if got := atomic.LoadInt32(&executed); got != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, got)
	}
}

func TestPool_FailuresDoNotAbortOthers(t *testing.T) {
	pool := NewPool(context.Background(), 3)
	pool.Start()

	for i := 0; i < 6; i++ {
		pool.Submit(&fetchJob{shouldErr: i%2 == 0})
	}

	results := pool.Wait()
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 3 {
		t.Errorf("expected 3 failed jobs, got %d", failures)
	}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	const workers = 2
	pool := NewPool(context.Background(), workers)
	pool.Start()

	var mu sync.Mutex
	current, peak := 0, 0

	for i := 0; i < 8; i++ {
		pool.Submit(&trackingJob{
			start: func() {
				mu.Lock()
				current++
				if current > peak {
					peak = current
				}
				mu.Unlock()
			},
			end: func() {
				mu.Lock()
				current--
				mu.Unlock()
			},
		})
	}

	pool.Wait()

	if peak > workers {
		t.Errorf("expected at most %d concurrent jobs, observed %d", workers, peak)
	}
}

type trackingJob struct {
	start func()
	end   func()
}

func (j *trackingJob) Execute(ctx context.Context) Result {
	j.start()
	time.Sleep(10 * time.Millisecond)
	j.end()
	return &fetchResult{}
}

func TestPool_ParentCancelAbortsInFlightJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 2)
	pool.Start()

	for i := 0; i < 2; i++ {
		pool.Submit(&fetchJob{duration: 5 * time.Second})
	}

	start := time.Now()
	time.AfterFunc(50*time.Millisecond, cancel)
	results := pool.Wait()

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Wait returned after %s, in-flight jobs ignored parent cancel", elapsed)
	}
	for _, r := range results {
		if !errors.Is(r.GetError(), context.Canceled) {
			t.Errorf("expected context.Canceled from aborted job, got %v", r.GetError())
		}
	}
}

func TestPool_Shutdown(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()

	pool.Submit(&fetchJob{duration: time.Second})
	pool.Shutdown()

	// Submit after shutdown must not block.
	done := make(chan struct{})
	go func() {
		pool.Submit(&fetchJob{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after Shutdown")
	}
}
