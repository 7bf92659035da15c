package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/logger"
	prometheus_monitoring "bitbucket.org/ConcurrentDragon/customer-products/internal/monitoring"
)

// maxResponseSize caps how much of an upstream body is read
const maxResponseSize = 10 * 1024 * 1024

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Service    string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s upstream returned %d for %s", e.Service, e.StatusCode, e.URL)
}

// Client performs JSON GET calls against one upstream service.
type Client struct {
	service    string
	base       *url.URL
	httpClient *http.Client
}

// creates a new Client for service rooted at baseURL
func New(service, baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s base url %q: %w", service, baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid %s base url %q: scheme and host are required", service, baseURL)
	}
	// keep the base path when resolving relative routes
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return &Client{
		service:    service,
		base:       base,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Service() string {
	return c.service
}

func (c *Client) fromBaseURL(route string, query url.Values) (*url.URL, error) {
	u, err := url.Parse(strings.TrimPrefix(route, "/"))
	if err != nil {
		return nil, err
	}
	resolved := c.base.ResolveReference(u)
	if len(query) > 0 {
		resolved.RawQuery = query.Encode()
	}
	return resolved, nil
}

// GetJSON issues GET route?query and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, route string, query url.Values, out interface{}) error {
	u, err := c.fromBaseURL(route, query)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		prometheus_monitoring.TickUpstreamFailed(c.service)
		return fmt.Errorf("%s upstream request failed: %w", c.service, err)
	}
	defer resp.Body.Close()
	prometheus_monitoring.ObserveUpstreamCall(c.service, resp.StatusCode, time.Since(start))

	logger.FromContext(ctx).Debug("upstream call",
		zap.String("service", c.service),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Service: c.service, URL: u.String(), StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		prometheus_monitoring.TickUpstreamFailed(c.service)
		return fmt.Errorf("failed to decode %s response: %w", c.service, err)
	}
	return nil
}

// Ping reports whether the upstream answers HTTP at its base URL. Any status code counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s upstream is unreachable: %w", c.service, err)
	}
	resp.Body.Close()
	return nil
}
