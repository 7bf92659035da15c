package aggregator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/logger"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
	prometheus_monitoring "bitbucket.org/ConcurrentDragon/customer-products/internal/monitoring"
)

const (
	operationProducts                = "products_by_customer_name"
	operationCustomerOrderedProducts = "customer_ordered_products"
)

// ErrCustomerNotFound is the only empty result reported as an error.
var ErrCustomerNotFound = errors.New("customer not found")

type ServiceImpl struct {
	customers CustomerLookup
	orders    OrderLookup
	products  ProductCatalog
}

// creates a new ServiceImpl
func New(customers CustomerLookup, orders OrderLookup, products ProductCatalog) *ServiceImpl {
	return &ServiceImpl{
		customers: customers,
		orders:    orders,
		products:  products,
	}
}

// returns the catalog products referenced by the orders of the first customer named name
func (s *ServiceImpl) GetProductsByCustomerName(ctx context.Context, name string) ([]models.Product, error) {
	result, err := s.resolveOrderedProducts(ctx, name)
	record(operationProducts, err)
	if err != nil {
		return nil, err
	}
	return result.Products, nil
}

// same lookup as GetProductsByCustomerName, also returning the customer and all of their orders
func (s *ServiceImpl) GetCustomerOrderedProducts(ctx context.Context, name string) (*models.CustomerOrderedProducts, error) {
	result, err := s.resolveOrderedProducts(ctx, name)
	record(operationCustomerOrderedProducts, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveOrderedProducts runs customer -> orders -> catalog. Every empty
// intermediate result short-circuits to a bundle with empty sequences; only a
// missing customer is an error. Orders are returned unfiltered.
func (s *ServiceImpl) resolveOrderedProducts(ctx context.Context, name string) (*models.CustomerOrderedProducts, error) {
	log := logger.FromContext(ctx).With(zap.String("customer_name", name))

	found, err := s.customers.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by name: %w", err)
	}
	if len(found) == 0 {
		log.Debug("no customer matched")
		return nil, ErrCustomerNotFound
	}
	if len(found) > 1 {
		log.Debug("customer name is ambiguous, using first match", zap.Int("matches", len(found)))
	}

	result := &models.CustomerOrderedProducts{
		Customer: found[0],
		Orders:   []models.Order{},
		Products: []models.Product{},
	}
	log = log.With(zap.Int("customer_id", result.Customer.CustomerID))

	orders, err := s.orders.FindByCustomerID(ctx, result.Customer.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders for customer %d: %w", result.Customer.CustomerID, err)
	}
	if len(orders) == 0 {
		log.Debug("customer has no orders")
		return result, nil
	}
	result.Orders = orders

	productIDs := collectProductIDs(orders)
	if len(productIDs) == 0 {
		log.Debug("orders reference no products", zap.Int("orders", len(orders)))
		return result, nil
	}

	catalog, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product catalog: %w", err)
	}
	if len(catalog) == 0 {
		log.Debug("product catalog is empty")
		return result, nil
	}

	result.Products = joinCatalog(productIDs, catalog)
	prometheus_monitoring.AddUnresolvedProducts(len(productIDs) - len(result.Products))

	log.Debug("resolved ordered products",
		zap.Int("orders", len(orders)),
		zap.Int("product_ids", len(productIDs)),
		zap.Int("resolved", len(result.Products)),
	)
	return result, nil
}

// collectProductIDs returns the distinct product IDs referenced by the order
// lines, in first-seen order. Null line lists, null lines and null IDs are skipped.
func collectProductIDs(orders []models.Order) []int {
	seen := make(map[int]struct{})
	ids := []int{}
	for _, o := range orders {
		for _, line := range o.OrderLines {
			if line == nil || line.ProductID == nil {
				continue
			}
			id := *line.ProductID
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// joinCatalog resolves ids against the catalog, dropping ids with no match.
// If the catalog repeats an ID the last entry wins.
func joinCatalog(ids []int, catalog []models.Product) []models.Product {
	byID := make(map[int]models.Product, len(catalog))
	for _, p := range catalog {
		if p.ProductID == nil {
			continue
		}
		byID[*p.ProductID] = p
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products
}

func record(operation string, err error) {
	switch {
	case err == nil:
		prometheus_monitoring.TickAggregation(operation, prometheus_monitoring.OutcomeOK)
	case errors.Is(err, ErrCustomerNotFound):
		prometheus_monitoring.TickAggregation(operation, prometheus_monitoring.OutcomeNotFound)
	default:
		prometheus_monitoring.TickAggregation(operation, prometheus_monitoring.OutcomeError)
	}
}
