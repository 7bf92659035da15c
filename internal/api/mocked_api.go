package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
)

type MockedApiService struct{}

// NewMockedApiService creates an api service answering with fixed data
func NewMockedApiService() ApiServicer {
	return &MockedApiService{}
}

func mockedProducts() []models.Product {
	return []models.Product{
		{
			ProductID:   models.IntPtr(5),
			ProductName: "Kettle",
			Description: "1.7l stainless steel kettle",
			Price:       decimal.RequireFromString("24.99"),
		},
		{
			ProductID:   models.IntPtr(9),
			ProductName: "Toaster",
			Price:       decimal.RequireFromString("31.50"),
		},
	}
}

// Health check for microservice
func (s *MockedApiService) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, Status{Status: "UP"})
}

func (s *MockedApiService) GetCustomerProducts(w http.ResponseWriter, r *http.Request) {
	if _, ok := customerName(w, r); !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, mockedProducts())
}

func (s *MockedApiService) GetCustomerOrderedProducts(w http.ResponseWriter, r *http.Request) {
	name, ok := customerName(w, r)
	if !ok {
		return
	}

	result := models.CustomerOrderedProducts{
		Customer: models.Customer{
			CustomerID:   1,
			CustomerName: name,
			Email:        "customer@example.com",
		},
		Orders: []models.Order{
			{
				OrderID:       100,
				CustomerID:    1,
				OrderTotal:    decimal.RequireFromString("81.48"),
				OrderDatetime: "2024-03-01T10:00:00Z",
				OrderLines: []*models.OrderLine{
					{ProductID: models.IntPtr(5), Quantity: 2, Price: decimal.RequireFromString("24.99")},
					{ProductID: models.IntPtr(9), Quantity: 1, Price: decimal.RequireFromString("31.50")},
				},
			},
		},
		Products: mockedProducts(),
	}
	writeJSON(w, r, http.StatusOK, result)
}
