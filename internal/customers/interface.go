package customers

import (
	"context"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
)

type Service interface {
	FindAll(ctx context.Context) ([]models.Customer, error)
	// may return an empty slice when no customer has that name
	FindByName(ctx context.Context, name string) ([]models.Customer, error)
	FindByID(ctx context.Context, customerID int) (*models.Customer, error)
	Ping(ctx context.Context) error
}
