package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/openfra/fra-atlas/internal/cache"
	"github.com/openfra/fra-atlas/internal/model"
	"github.com/openfra/fra-atlas/internal/registry"
	"github.com/openfra/fra-atlas/internal/util"
	"github.com/openfra/fra-atlas/internal/worker"
)

// Client fetches dataset records from the open-data gateway
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	maxBytes   int64
	limit      int
	cache      cache.Cache     // nil disables response caching
	limiter    *worker.Limiter // nil disables outbound rate limiting
}

// NewClient creates a gateway client from configuration
func NewClient(cfg *model.Config, responseCache cache.Cache, limiter *worker.Limiter) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.ProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:   strings.TrimRight(cfg.Gateway.BaseURL, "/"),
		apiKey:    cfg.Gateway.APIKey,
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		limit:     cfg.Gateway.Limit,
		cache:     responseCache,
		limiter:   limiter,
	}
}

// Options narrows a single fetch
type Options struct {
	State    string // Applied only when the endpoint supports a state filter
	District string
	Limit    int // Overrides the configured row limit when > 0
	Offset   int
	NoCache  bool
}

// Response is a decoded gateway answer
type Response struct {
	Records    []map[string]any
	Total      int
	StatusCode int
	Cached     bool
}

type gatewayPayload struct {
	Records []map[string]any `json:"records"`
	Total   int              `json:"total"`
	Count   int              `json:"count"`
}

// GatewayError describes a non-success answer from the gateway
type GatewayError struct {
	Endpoint   string
	StatusCode int
	Detail     string // HTML error page title when the gateway served one
}

func (e *GatewayError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway error for %s: status %d: %s", e.Endpoint, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("gateway error for %s: status %d", e.Endpoint, e.StatusCode)
}

// Fetch retrieves one endpoint's records. Exactly one request, no retries:
// a failed endpoint contributes nothing to this run and the next run tries
// again.
func (c *Client) Fetch(ctx context.Context, ep registry.Endpoint, opts Options) (*Response, error) {
	reqURL := c.buildURL(ep, opts)

	if c.cache != nil && !opts.NoCache {
		if body, found := c.cache.Get(cache.Key(reqURL)); found {
			if resp, err := decodePayload(body); err == nil {
				resp.Cached = true
				resp.StatusCode = http.StatusOK
				return resp, nil
			}
			// Corrupt cache entry; drop it and refetch.
			_ = c.cache.Delete(cache.Key(reqURL))
		}
	}

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, reqURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ep.Key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body for %s: %w", ep.Key, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := ""
		if t := htmlTitle(body); t != "" {
			detail = t
		}
		return nil, &GatewayError{Endpoint: ep.Key, StatusCode: resp.StatusCode, Detail: detail}
	}

	// Auth failures come back as status 200 with an HTML page instead of the
	// JSON document; surface the page title rather than a JSON parse error.
	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		return nil, &GatewayError{Endpoint: ep.Key, StatusCode: resp.StatusCode, Detail: htmlTitle(body)}
	}

	payload, err := decodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ep.Key, err)
	}
	payload.StatusCode = resp.StatusCode

	if c.cache != nil && !opts.NoCache {
		_ = c.cache.Set(cache.Key(reqURL), body, 0)
	}

	return payload, nil
}

func (c *Client) buildURL(ep registry.Endpoint, opts Options) string {
	q := url.Values{}
	q.Set("api-key", c.apiKey)
	q.Set("format", "json")

	limit := opts.Limit
	if limit <= 0 {
		limit = c.limit
	}
	q.Set("limit", strconv.Itoa(limit))

	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.State != "" && ep.StateParam != "" {
		q.Set(ep.StateParam, opts.State)
	}
	if opts.District != "" && ep.DistrictParam != "" {
		q.Set(ep.DistrictParam, opts.District)
	}

	return c.baseURL + ep.Resource + "?" + q.Encode()
}

func decodePayload(body []byte) (*Response, error) {
	var payload gatewayPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	total := payload.Total
	if total == 0 {
		total = len(payload.Records)
	}

	return &Response{Records: payload.Records, Total: total}, nil
}

func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(contentType, "text/html") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return bytes.HasPrefix(trimmed, []byte("<!DOCTYPE")) || bytes.HasPrefix(trimmed, []byte("<html"))
}

// htmlTitle extracts the <title> of an HTML error page for diagnostics
func htmlTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return title
}
