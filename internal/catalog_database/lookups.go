package catalog_database

import (
	"context"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
)

// The lookups below let the database stand in for the HTTP upstreams.

type CustomerLookup struct {
	db Service
}

func NewCustomerLookup(db Service) *CustomerLookup {
	return &CustomerLookup{db: db}
}

func (l *CustomerLookup) FindByName(ctx context.Context, name string) ([]models.Customer, error) {
	return l.db.QueryCustomersByName(ctx, name)
}

type OrderLookup struct {
	db Service
}

func NewOrderLookup(db Service) *OrderLookup {
	return &OrderLookup{db: db}
}

func (l *OrderLookup) FindByCustomerID(ctx context.Context, customerID int) ([]models.Order, error) {
	return l.db.QueryOrdersByCustomerID(ctx, customerID)
}

type ProductCatalog struct {
	db Service
}

func NewProductCatalog(db Service) *ProductCatalog {
	return &ProductCatalog{db: db}
}

func (c *ProductCatalog) FindAll(ctx context.Context) ([]models.Product, error) {
	return c.db.QueryProducts(ctx)
}
