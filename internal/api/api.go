package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/aggregator"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/logger"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
	prometheus_monitoring "bitbucket.org/ConcurrentDragon/customer-products/internal/monitoring"
)

const customerNameParam = "customerName"

type ApiServicer interface {
	GetCustomerProducts(w http.ResponseWriter, r *http.Request)
	GetCustomerOrderedProducts(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
}

// Pinger is anything the status endpoint can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusCheck names a dependency reported by GetStatus
type StatusCheck struct {
	Name   string
	Pinger Pinger
}

type Status struct {
	Status string `json:"status"`
}

type ApiService struct {
	aggregatorService aggregator.Service
	statusChecks      []StatusCheck
}

// NewApiService creates an api service
func NewApiService(aggregatorService aggregator.Service, statusChecks ...StatusCheck) ApiServicer {
	return &ApiService{
		aggregatorService: aggregatorService,
		statusChecks:      statusChecks,
	}
}

// Health check for microservice
func (s *ApiService) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := Status{
		Status: "UP",
	}

	upstreamStatus := 1.0
	for _, check := range s.statusChecks {
		if err := check.Pinger.Ping(r.Context()); err != nil {
			status.Status = fmt.Sprintf("%s is down: %v", check.Name, err)
			upstreamStatus = 0
			break
		}
	}
	prometheus_monitoring.SetUpstreamStatus(upstreamStatus)

	writeJSON(w, r, http.StatusOK, status)
}

// Gets the catalog products a customer has ordered
func (s *ApiService) GetCustomerProducts(w http.ResponseWriter, r *http.Request) {
	name, ok := customerName(w, r)
	if !ok {
		return
	}

	products, err := s.aggregatorService.GetProductsByCustomerName(r.Context(), name)
	if err != nil {
		writeAggregatorError(w, r, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, r, http.StatusOK, products)
}

// Gets the customer, their orders and the catalog products they reference
func (s *ApiService) GetCustomerOrderedProducts(w http.ResponseWriter, r *http.Request) {
	name, ok := customerName(w, r)
	if !ok {
		return
	}

	result, err := s.aggregatorService.GetCustomerOrderedProducts(r.Context(), name)
	if err != nil {
		writeAggregatorError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// reads the customerName query parameter, answering 400 when it is blank
func customerName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.URL.Query().Get(customerNameParam)
	if strings.TrimSpace(name) == "" {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("%s query parameter is required", customerNameParam))
		return "", false
	}
	return name, true
}

func writeAggregatorError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, aggregator.ErrCustomerNotFound) {
		writeError(w, r, http.StatusNotFound, "customer not found")
		return
	}

	logger.FromContext(r.Context()).Error("aggregation failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]string{"error": message})
}
