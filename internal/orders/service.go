package orders

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/upstream"
)

const (
	serviceName = "orders"
	route       = "orders"
)

type ServiceImpl struct {
	client *upstream.Client
}

// creates a new ServiceImpl against the order service at baseURL
func New(baseURL string, timeout time.Duration) (*ServiceImpl, error) {
	client, err := upstream.New(serviceName, baseURL, timeout)
	if err != nil {
		return nil, err
	}

	return &ServiceImpl{
		client: client,
	}, nil
}

// "/orders"
func (s *ServiceImpl) FindAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.client.GetJSON(ctx, route, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// "/orders?customer_id=<id>"
func (s *ServiceImpl) FindByCustomerID(ctx context.Context, customerID int) ([]models.Order, error) {
	query := url.Values{"customer_id": []string{strconv.Itoa(customerID)}}

	var orders []models.Order
	if err := s.client.GetJSON(ctx, route, query, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *ServiceImpl) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
