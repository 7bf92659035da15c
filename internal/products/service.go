package products

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/upstream"
)

const (
	serviceName = "products"
	route       = "products"
)

type ServiceImpl struct {
	client *upstream.Client
}

// creates a new ServiceImpl against the product catalog at baseURL
func New(baseURL string, timeout time.Duration) (*ServiceImpl, error) {
	client, err := upstream.New(serviceName, baseURL, timeout)
	if err != nil {
		return nil, err
	}

	return &ServiceImpl{
		client: client,
	}, nil
}

// "/products"
func (s *ServiceImpl) FindAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.client.GetJSON(ctx, route, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// "/products?product_id=<id>"
func (s *ServiceImpl) FindByID(ctx context.Context, productID int) ([]models.Product, error) {
	query := url.Values{"product_id": []string{strconv.Itoa(productID)}}

	var products []models.Product
	if err := s.client.GetJSON(ctx, route, query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ServiceImpl) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
