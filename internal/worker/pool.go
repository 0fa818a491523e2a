// Package worker provides the bounded worker pool and per-domain rate
// limiter used for concurrent source fetches. Concurrency here is purely
// a latency optimization: the merge step in the article source always
// waits for every dispatched fetch before deciding whether to
// synthesize fallback data.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work, typically one source fetch for one company.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job execution.
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers. Results accumulate in
// the pool, so Submit never blocks on result backpressure no matter how
// many jobs are queued ahead of a Wait.
type Pool struct {
	workers    int
	jobQueue   chan Job
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	mu      sync.Mutex
	results []Result
}

// NewPool creates a pool with the given number of workers (minimum 1).
// Jobs execute under a child of parent, so cancelling parent aborts
// in-flight work.
func NewPool(parent context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(parent)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			p.mu.Lock()
			p.results = append(p.results, result)
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. Submissions after Shutdown are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for all submitted jobs, and returns every
// result. Individual job failures surface through Result.GetError, never
// as a pool error: one blocked source must not abort the others.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Shutdown cancels outstanding work immediately. Results of jobs that
// finished before the cancel remain available.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}
