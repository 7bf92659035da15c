package products

import (
	"context"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
)

type Service interface {
	// full catalog snapshot, may be empty
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, productID int) ([]models.Product, error)
	Ping(ctx context.Context) error
}
