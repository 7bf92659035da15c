package orders

import (
	"context"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
)

type Service interface {
	FindAll(ctx context.Context) ([]models.Order, error)
	// may return an empty slice when the customer never ordered
	FindByCustomerID(ctx context.Context, customerID int) ([]models.Order, error)
	Ping(ctx context.Context) error
}
