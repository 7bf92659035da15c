package catalog_database

import (
	"context"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
)

type Service interface {
	QueryCustomersByName(ctx context.Context, name string) ([]models.Customer, error)
	QueryOrdersByCustomerID(ctx context.Context, customerID int) ([]models.Order, error)
	QueryProducts(ctx context.Context) ([]models.Product, error)
	Ping(ctx context.Context) error
	Close()
}
