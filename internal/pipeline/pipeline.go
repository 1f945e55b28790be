package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openfra/fra-atlas/internal/aggregate"
	"github.com/openfra/fra-atlas/internal/cache"
	"github.com/openfra/fra-atlas/internal/datastore"
	"github.com/openfra/fra-atlas/internal/events"
	"github.com/openfra/fra-atlas/internal/fetch"
	"github.com/openfra/fra-atlas/internal/model"
	"github.com/openfra/fra-atlas/internal/normalize"
	"github.com/openfra/fra-atlas/internal/registry"
	"github.com/openfra/fra-atlas/internal/telemetry"
	"github.com/openfra/fra-atlas/internal/worker"
)

// Pipeline orchestrates the complete aggregation process: fetch every
// registry endpoint, normalize the rows into canonical claims, and commit
// the merged collection behind a generation guard.
type Pipeline struct {
	cfg        *model.Config
	registry   *registry.Registry
	client     *fetch.Client
	runner     *fetch.Runner
	normalizer *normalize.Normalizer
	store      *aggregate.Store
	bus        *events.Bus
	metrics    *telemetry.Metrics  // Optional (nil skips instrumentation)
	db         datastore.Interface // Optional run history sink
	log        *slog.Logger
	now        func() time.Time
}

// New creates a pipeline with the given configuration. The metrics and db
// arguments may be nil.
func New(cfg *model.Config, log *slog.Logger, metrics *telemetry.Metrics, db datastore.Interface) (*Pipeline, error) {
	if log == nil {
		log = slog.Default()
	}

	reg, err := registry.Build(cfg.Endpoints)
	if err != nil {
		return nil, fmt.Errorf("build endpoint registry: %w", err)
	}

	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		responseCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	var limiter *worker.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	client := fetch.NewClient(cfg, responseCache, limiter)

	return &Pipeline{
		cfg:        cfg,
		registry:   reg,
		client:     client,
		runner:     fetch.NewRunner(client, cfg.Concurrency.FetchWorkers),
		normalizer: normalize.New(cfg),
		store:      aggregate.NewStore(),
		bus:        events.NewBus(0),
		metrics:    metrics,
		db:         db,
		log:        log,
		now:        time.Now,
	}, nil
}

// Registry exposes the endpoint registry backing this pipeline.
func (p *Pipeline) Registry() *registry.Registry { return p.registry }

// Store exposes the committed claim collection.
func (p *Pipeline) Store() *aggregate.Store { return p.store }

// Bus exposes the event stream that committed runs publish to.
func (p *Pipeline) Bus() *events.Bus { return p.bus }

// Probe issues a one-record request against every endpoint and reports
// reachability without touching the committed collection.
func (p *Pipeline) Probe(ctx context.Context) []model.EndpointStatus {
	return p.runner.Probe(ctx, p.registry.All())
}

// FetchEndpoint retrieves one endpoint's raw records for the pass-through
// government surface. It shares the run client, so response caching and
// outbound rate limiting apply.
func (p *Pipeline) FetchEndpoint(ctx context.Context, key string, opts fetch.Options) (registry.Endpoint, *fetch.Response, error) {
	ep, ok := p.registry.Get(key)
	if !ok {
		return registry.Endpoint{}, nil, fmt.Errorf("unknown endpoint %q", key)
	}
	resp, err := p.client.Fetch(ctx, ep, opts)
	return ep, resp, err
}

// RunOptions narrows an aggregation run.
type RunOptions struct {
	State    string // Pushed down to endpoints that support a state filter
	District string
	NoCache  bool // Bypass the gateway response cache
}

// Run executes one aggregation run. Endpoint failures degrade the run but
// never abort it: a total outage commits an empty collection. The result is
// discarded only when a newer run committed first, or when ctx was cancelled
// mid-flight.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (model.RunSnapshot, error) {
	generation := p.store.Begin()
	started := p.now().UTC()

	endpoints := p.registry.All()
	p.log.Info("run started",
		"generation", generation,
		"endpoints", len(endpoints),
		"state", opts.State,
		"district", opts.District)

	fetches := p.runner.FetchAll(ctx, endpoints, fetch.Options{
		State:    opts.State,
		District: opts.District,
		NoCache:  opts.NoCache,
	})

	results := make([]model.EndpointResult, len(fetches))
	batches := make([][]model.Claim, len(fetches))
	failed := 0

	for i, f := range fetches {
		res := model.EndpointResult{
			Key:        f.Endpoint.Key,
			Title:      f.Endpoint.Title,
			DurationMS: f.Duration.Milliseconds(),
		}

		if p.metrics != nil {
			p.metrics.ObserveEndpointFetch(f.Endpoint.Key, f.Err, f.Duration.Seconds())
		}

		if f.Err != nil {
			failed++
			res.Failed = true
			res.Error = f.Err.Error()
			var gwErr *fetch.GatewayError
			if errors.As(f.Err, &gwErr) {
				res.StatusCode = gwErr.StatusCode
			}
			p.log.Warn("endpoint fetch failed",
				"endpoint", f.Endpoint.Key,
				"error", f.Err)
			results[i] = res
			continue
		}

		res.StatusCode = f.Response.StatusCode
		res.Cached = f.Response.Cached
		if p.metrics != nil {
			p.metrics.RecordCacheLookup(f.Response.Cached)
		}

		claims := p.normalizer.Normalize(f.Endpoint, toRows(f.Response.Records))
		res.Records = len(claims)
		res.Skipped = len(f.Response.Records) - len(claims)
		batches[i] = claims
		results[i] = res
	}

	snapshot := model.RunSnapshot{
		Generation: generation,
		StartedAt:  started,
		Failed:     failed,
		Succeeded:  len(endpoints) - failed,
		Endpoints:  results,
	}

	// A cancelled run reports every unfinished endpoint as failed; committing
	// that would replace good data with an artificially empty collection.
	if err := ctx.Err(); err != nil {
		p.log.Warn("run cancelled, result discarded", "generation", generation)
		return snapshot, err
	}

	claims := aggregate.Concat(batches)
	snapshot.Records = len(claims)
	snapshot.DurationMS = p.now().UTC().Sub(started).Milliseconds()

	if p.metrics != nil {
		p.metrics.ObserveRun(float64(snapshot.DurationMS)/1000.0, snapshot.Records, failed)
	}

	if !p.store.Commit(generation, claims, snapshot) {
		p.log.Info("run superseded, result discarded",
			"generation", generation,
			"committed", p.store.Generation())
		return snapshot, nil
	}

	p.log.Info("run committed",
		"generation", generation,
		"records", snapshot.Records,
		"failed_endpoints", failed,
		"duration_ms", snapshot.DurationMS)

	p.bus.Publish(events.RunCompleted(snapshot))

	if p.db != nil {
		if err := p.saveRun(snapshot); err != nil {
			p.log.Warn("persist run history failed", "error", err)
		}
	}

	return snapshot, nil
}

// saveRun records a committed run in the datastore for dashboards.
func (p *Pipeline) saveRun(snap model.RunSnapshot) error {
	detail, err := json.Marshal(snap.Endpoints)
	if err != nil {
		return err
	}
	return p.db.SaveSyncRun(&datastore.SyncRun{
		Generation: snap.Generation,
		StartedAt:  snap.StartedAt,
		DurationMS: snap.DurationMS,
		Records:    snap.Records,
		Succeeded:  snap.Succeeded,
		Failed:     snap.Failed,
		Degraded:   snap.Degraded(),
		DetailJSON: string(detail),
	})
}

func toRows(records []map[string]any) []normalize.Row {
	rows := make([]normalize.Row, len(records))
	for i, r := range records {
		rows[i] = normalize.Row(r)
	}
	return rows
}
