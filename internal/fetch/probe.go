package fetch

import (
	"context"
	"errors"

	"github.com/openfra/fra-atlas/internal/model"
	"github.com/openfra/fra-atlas/internal/registry"
)

// Probe checks every endpoint with a single-record request and reports
// availability. Serves the api-status surface; probes bypass the cache so
// the answer reflects the gateway right now.
func (r *Runner) Probe(ctx context.Context, endpoints []registry.Endpoint) []model.EndpointStatus {
	fetches := r.FetchAll(ctx, endpoints, Options{Limit: 1, NoCache: true})

	statuses := make([]model.EndpointStatus, len(fetches))
	for i, f := range fetches {
		st := model.EndpointStatus{
			Key:      f.Endpoint.Key,
			Title:    f.Endpoint.Title,
			Resource: f.Endpoint.Resource,
		}

		if f.Err != nil {
			st.Error = f.Err.Error()
			var gwErr *GatewayError
			if errors.As(f.Err, &gwErr) {
				st.StatusCode = gwErr.StatusCode
			}
		} else {
			st.IsAccessible = true
			st.StatusCode = f.Response.StatusCode
			st.Records = len(f.Response.Records)
		}

		statuses[i] = st
	}

	return statuses
}
