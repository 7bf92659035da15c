package customers

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/upstream"
)

const (
	serviceName = "customers"
	route       = "customers"
)

var ErrCustomerNotFound = errors.New("customer not found")

type ServiceImpl struct {
	client *upstream.Client
}

// creates a new ServiceImpl against the customer service at baseURL
func New(baseURL string, timeout time.Duration) (*ServiceImpl, error) {
	client, err := upstream.New(serviceName, baseURL, timeout)
	if err != nil {
		return nil, err
	}

	return &ServiceImpl{
		client: client,
	}, nil
}

// "/customers"
func (s *ServiceImpl) FindAll(ctx context.Context) ([]models.Customer, error) {
	return s.find(ctx, nil)
}

// "/customers?customer_name=<name>"
func (s *ServiceImpl) FindByName(ctx context.Context, name string) ([]models.Customer, error) {
	return s.find(ctx, url.Values{"customer_name": []string{name}})
}

// "/customers?customer_id=<id>", the service answers with a list
func (s *ServiceImpl) FindByID(ctx context.Context, customerID int) (*models.Customer, error) {
	customers, err := s.find(ctx, url.Values{"customer_id": []string{strconv.Itoa(customerID)}})
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, ErrCustomerNotFound
	}
	return &customers[0], nil
}

func (s *ServiceImpl) find(ctx context.Context, query url.Values) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.client.GetJSON(ctx, route, query, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *ServiceImpl) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
