package worker

import (
	"context"
	"sync"
)

// Job represents a unit of background work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the outcome of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed set of workers. It serves two lifecycles: batch
// (Submit everything, then Drain) and long-running (Submit over time, consume
// Results, Shutdown on exit), which is how the document job queue uses it.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*4),
		results:    make(chan Result, workers*4),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers
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
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Returns false if the pool is shutting down.
func (p *Pool) Submit(job Job) bool {
	// Checked separately: a select with both cases ready picks at random,
	// which would let a job slip in after Shutdown.
	select {
	case <-p.ctx.Done():
		return false
	default:
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Results exposes the stream of job outcomes for long-running consumers
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Drain closes the queue, waits for in-flight jobs, and returns everything.
// Batch-mode only; do not Submit after calling Drain.
func (p *Pool) Drain() []Result {
	close(p.jobQueue)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown stops the pool immediately, abandoning queued jobs
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
