package api

import (
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/logger"
	prometheus_monitoring "bitbucket.org/ConcurrentDragon/customer-products/internal/monitoring"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDPrefix = "REQ"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// generates a prefixed ULID like "REQ-01D78XYFJ1PRM1WPBCBT3VHMNV"
func generateRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy)
	return fmt.Sprintf("%s-%s", requestIDPrefix, u.String())
}

// NewRouter wires the api routes, the metrics endpoint and request middleware
func NewRouter(apiService ApiServicer, log *zap.Logger) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/customer-products", apiService.GetCustomerProducts).
		Methods(http.MethodGet).
		Name("GetCustomerProducts")
	router.HandleFunc("/customer-ordered-products", apiService.GetCustomerOrderedProducts).
		Methods(http.MethodGet).
		Name("GetCustomerOrderedProducts")
	router.HandleFunc("/status", apiService.GetStatus).
		Methods(http.MethodGet).
		Name("GetStatus")
	router.Handle("/metrics", promhttp.Handler()).
		Methods(http.MethodGet).
		Name("Metrics")

	router.Use(requestMiddleware(log))
	return router
}

// requestMiddleware tags each request with an id, logs it and counts it by route template
func requestMiddleware(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := generateRequestID()
			ctx, requestLogger := logger.WithRequestID(r.Context(), log, requestID)
			w.Header().Set(requestIDHeader, requestID)

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			prometheus_monitoring.TickHTTPRequest(route, ww.statusCode)

			requestLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.statusCode),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
