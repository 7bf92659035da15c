package aggregator

import (
	"context"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
)

// The lookups are satisfied by the HTTP clients in customers, orders and products
// and by catalog_database.

type CustomerLookup interface {
	FindByName(ctx context.Context, name string) ([]models.Customer, error)
}

type OrderLookup interface {
	FindByCustomerID(ctx context.Context, customerID int) ([]models.Order, error)
}

type ProductCatalog interface {
	FindAll(ctx context.Context) ([]models.Product, error)
}

type Service interface {
	GetProductsByCustomerName(ctx context.Context, name string) ([]models.Product, error)
	GetCustomerOrderedProducts(ctx context.Context, name string) (*models.CustomerOrderedProducts, error)
}
