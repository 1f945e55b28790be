package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/openfra/fra-atlas/internal/registry"
)

// Runner executes all endpoint fetches for one aggregation run concurrently.
// Failures stay per-endpoint: a run never aborts because one dataset is down.
type Runner struct {
	client  *Client
	workers int
}

// NewRunner creates a runner bounded to the given worker count
func NewRunner(client *Client, workers int) *Runner {
	if workers <= 0 {
		workers = 8
	}
	return &Runner{client: client, workers: workers}
}

// EndpointFetch pairs an endpoint with its fetch outcome
type EndpointFetch struct {
	Endpoint registry.Endpoint
	Response *Response
	Err      error
	Duration time.Duration
}

// FetchAll fetches every endpoint concurrently. The returned slice preserves
// input order regardless of completion order, so downstream concatenation
// stays deterministic.
func (r *Runner) FetchAll(ctx context.Context, endpoints []registry.Endpoint, opts Options) []EndpointFetch {
	if len(endpoints) == 0 {
		return []EndpointFetch{}
	}

	results := make([]EndpointFetch, len(endpoints))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, r.workers)

	for i, ep := range endpoints {
		wg.Add(1)
		go func(idx int, ep registry.Endpoint) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = EndpointFetch{Endpoint: ep, Err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			start := time.Now()
			resp, err := r.client.Fetch(ctx, ep, opts)
			results[idx] = EndpointFetch{
				Endpoint: ep,
				Response: resp,
				Err:      err,
				Duration: time.Since(start),
			}
		}(i, ep)
	}

	wg.Wait()

	return results
}
