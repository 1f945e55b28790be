package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countJob struct {
	counter *atomic.Int64
	err     error
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	return &countResult{err: j.err}
}

func TestPool_Drain(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(4)
	pool.Start()

	for i := 0; i < 20; i++ {
		if !pool.Submit(&countJob{counter: &counter}) {
			t.Fatalf("submit %d rejected", i)
		}
	}

	results := pool.Drain()

	if counter.Load() != 20 {
		t.Errorf("expected 20 executions, got %d", counter.Load())
	}
	if len(results) != 20 {
		t.Errorf("expected 20 results, got %d", len(results))
	}
}

func TestPool_ErrorsSurfaceInResults(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(2)
	pool.Start()

	wantErr := errors.New("ocr failed")
	pool.Submit(&countJob{counter: &counter})
	pool.Submit(&countJob{counter: &counter, err: wantErr})

	results := pool.Drain()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failed result, got %d", failures)
	}
}

func TestPool_StreamingResults(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(1)
	pool.Start()
	defer pool.Shutdown()

	pool.Submit(&countJob{counter: &counter})

	select {
	case r := <-pool.Results():
		if r.GetError() != nil {
			t.Errorf("unexpected error: %v", r.GetError())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for streamed result")
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Shutdown()

	var counter atomic.Int64
	if pool.Submit(&countJob{counter: &counter}) {
		t.Error("submit after shutdown should be rejected")
	}
}

func TestPool_ZeroWorkersClamped(t *testing.T) {
	pool := NewPool(0)
	if pool.workers != 1 {
		t.Errorf("expected workers clamped to 1, got %d", pool.workers)
	}
}
