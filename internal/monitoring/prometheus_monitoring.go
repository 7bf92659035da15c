package prometheus_monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// https://prometheus.io/docs/guides/go-application/

const (
	namespace = "customer_products"

	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	microserviceStatusMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "microservice_status",
		Help:      "Health status indicator for the customer-products microservice",
	})
	upstreamStatusMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "upstream_status",
		Help:      "Health status indicator for the customer, order and product upstreams",
	})
	aggregationMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregations_total",
		Help:      "The total number of aggregation queries by operation and outcome",
	}, []string{"operation", "outcome"})
	unresolvedProductsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unresolved_product_ids_total",
		Help:      "The total number of ordered product IDs that had no match in the product catalog",
	})
	upstreamDurationMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of upstream calls by service and HTTP status code",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "code"})
	upstreamFailedMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_failed_total",
		Help:      "The total number of upstream calls that failed before a response was decoded",
	}, []string{"service"})
	httpRequestsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "The total number of inbound HTTP requests by route and status code",
	}, []string{"route", "code"})
)

type statusResponse struct {
	Status string `json:"status"`
}

func getStatus(ctx context.Context, client *http.Client, statusURL string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status health check failed with code %d", resp.StatusCode)
	}

	var respBody statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return 0, err
	}

	if respBody.Status != "UP" {
		return 0, nil
	}
	return 1, nil
}

// polls the status endpoint every interval until ctx is cancelled
func RecordMetrics(ctx context.Context, statusURL string, interval time.Duration, logger *zap.Logger) {
	client := &http.Client{Timeout: interval}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			status, err := getStatus(ctx, client, statusURL)
			if err != nil {
				logger.Warn("status check failed", zap.String("status_url", statusURL), zap.Error(err))
			}
			microserviceStatusMetric.Set(status)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func SetUpstreamStatus(status float64) {
	upstreamStatusMetric.Set(status)
}

func TickAggregation(operation, outcome string) {
	aggregationMetric.WithLabelValues(operation, outcome).Inc()
}

func AddUnresolvedProducts(n int) {
	if n > 0 {
		unresolvedProductsMetric.Add(float64(n))
	}
}

func ObserveUpstreamCall(service string, code int, d time.Duration) {
	upstreamDurationMetric.WithLabelValues(service, strconv.Itoa(code)).Observe(d.Seconds())
}

func TickUpstreamFailed(service string) {
	upstreamFailedMetric.WithLabelValues(service).Inc()
}

func TickHTTPRequest(route string, code int) {
	httpRequestsMetric.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
