package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/models"
)

type MockCustomerLookup struct {
	mock.Mock
}

func (m *MockCustomerLookup) FindByName(ctx context.Context, name string) ([]models.Customer, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

type MockOrderLookup struct {
	mock.Mock
}

func (m *MockOrderLookup) FindByCustomerID(ctx context.Context, customerID int) ([]models.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) FindAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

type fixture struct {
	customers *MockCustomerLookup
	orders    *MockOrderLookup
	catalog   *MockProductCatalog
	service   *ServiceImpl
}

func setupTest() *fixture {
	f := &fixture{
		customers: new(MockCustomerLookup),
		orders:    new(MockOrderLookup),
		catalog:   new(MockProductCatalog),
	}
	f.service = New(f.customers, f.orders, f.catalog)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.customers.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
}

var (
	alex      = models.Customer{CustomerID: 1, CustomerName: "Alex", Email: "alex@example.com"}
	otherAlex = models.Customer{CustomerID: 2, CustomerName: "Alex"}
)

func line(productID *int) *models.OrderLine {
	return &models.OrderLine{ProductID: productID, Quantity: 1, Price: decimal.NewFromInt(1)}
}

func product(id int, name string) models.Product {
	return models.Product{ProductID: models.IntPtr(id), ProductName: name, Price: decimal.NewFromFloat(9.99)}
}

func productIDs(products []models.Product) []int {
	ids := []int{}
	for _, p := range products {
		ids = append(ids, *p.ProductID)
	}
	return ids
}

// orders referencing {5, 7, 5, null, 9} with a null line and a null line list
func mixedOrders() []models.Order {
	return []models.Order{
		{
			OrderID:    100,
			CustomerID: 1,
			OrderTotal: decimal.NewFromInt(3),
			OrderLines: []*models.OrderLine{line(models.IntPtr(5)), line(models.IntPtr(7))},
		},
		{
			OrderID:    101,
			CustomerID: 1,
			OrderTotal: decimal.NewFromInt(3),
			OrderLines: []*models.OrderLine{line(models.IntPtr(5)), line(nil), nil, line(models.IntPtr(9))},
		},
		{
			OrderID:    102,
			CustomerID: 1,
			OrderLines: nil,
		},
	}
}

func TestGetProductsByCustomerName_CustomerNotFound(t *testing.T) {
	f := setupTest()
	f.customers.On("FindByName", mock.Anything, "Nobody").Return([]models.Customer{}, nil)

	products, err := f.service.GetProductsByCustomerName(context.Background(), "Nobody")

	assert.True(t, errors.Is(err, ErrCustomerNotFound))
	assert.Nil(t, products)
	f.orders.AssertNotCalled(t, "FindByCustomerID", mock.Anything, mock.Anything)
	f.catalog.AssertNotCalled(t, "FindAll", mock.Anything)
}

func TestGetCustomerOrderedProducts_CustomerNotFound(t *testing.T) {
	f := setupTest()
	// a null body from the customer service is treated as no match
	f.customers.On("FindByName", mock.Anything, "Nobody").Return(nil, nil)

	bundle, err := f.service.GetCustomerOrderedProducts(context.Background(), "Nobody")

	assert.True(t, errors.Is(err, ErrCustomerNotFound))
	assert.Nil(t, bundle)
}

func TestGetProductsByCustomerName_UsesFirstMatch(t *testing.T) {
	f := setupTest()
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex, otherAlex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return([]models.Order{
		{OrderID: 100, CustomerID: 1, OrderLines: []*models.OrderLine{line(models.IntPtr(5))}},
	}, nil)
	f.catalog.On("FindAll", mock.Anything).Return([]models.Product{product(5, "Kettle")}, nil)

	products, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")

	require.NoError(t, err)
	assert.Equal(t, []int{5}, productIDs(products))
	f.orders.AssertNotCalled(t, "FindByCustomerID", mock.Anything, 2)
	f.assertExpectations(t)
}

func TestGetProductsByCustomerName_NoOrders(t *testing.T) {
	f := setupTest()
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return([]models.Order{}, nil)

	products, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	f.catalog.AssertNotCalled(t, "FindAll", mock.Anything)
}

func TestGetCustomerOrderedProducts_NoOrders(t *testing.T) {
	f := setupTest()
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return(nil, nil)

	bundle, err := f.service.GetCustomerOrderedProducts(context.Background(), "Alex")

	require.NoError(t, err)
	assert.Equal(t, alex, bundle.Customer)
	assert.NotNil(t, bundle.Orders)
	assert.Empty(t, bundle.Orders)
	assert.NotNil(t, bundle.Products)
	assert.Empty(t, bundle.Products)
	f.catalog.AssertNotCalled(t, "FindAll", mock.Anything)
}

func TestGetCustomerOrderedProducts_NoProductReferences(t *testing.T) {
	f := setupTest()
	orders := []models.Order{
		{OrderID: 100, CustomerID: 1, OrderLines: []*models.OrderLine{line(nil), nil}},
		{OrderID: 101, CustomerID: 1, OrderLines: nil},
	}
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return(orders, nil)

	bundle, err := f.service.GetCustomerOrderedProducts(context.Background(), "Alex")
	require.NoError(t, err)
	assert.Equal(t, orders, bundle.Orders)
	assert.Empty(t, bundle.Products)

	products, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")
	require.NoError(t, err)
	assert.Empty(t, products)

	f.catalog.AssertNotCalled(t, "FindAll", mock.Anything)
}

func TestGetCustomerOrderedProducts_EmptyCatalog(t *testing.T) {
	f := setupTest()
	orders := mixedOrders()
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return(orders, nil)
	f.catalog.On("FindAll", mock.Anything).Return([]models.Product{}, nil)

	bundle, err := f.service.GetCustomerOrderedProducts(context.Background(), "Alex")

	require.NoError(t, err)
	assert.Equal(t, alex, bundle.Customer)
	assert.Equal(t, orders, bundle.Orders)
	assert.NotNil(t, bundle.Products)
	assert.Empty(t, bundle.Products)
	f.assertExpectations(t)
}

func TestGetProductsByCustomerName_DedupAndDrop(t *testing.T) {
	f := setupTest()
	catalog := []models.Product{product(9, "Toaster"), product(3, "Unordered"), product(5, "Kettle")}
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return(mixedOrders(), nil)
	f.catalog.On("FindAll", mock.Anything).Return(catalog, nil)

	products, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")

	require.NoError(t, err)
	// 7 has no catalog entry, the null reference is skipped and 5 appears once
	assert.ElementsMatch(t, []int{5, 9}, productIDs(products))
	// output is verbatim catalog data
	assert.Contains(t, catalog, products[0])
	assert.Contains(t, catalog, products[1])
	f.assertExpectations(t)
}

func TestGetCustomerOrderedProducts_Full(t *testing.T) {
	f := setupTest()
	orders := mixedOrders()
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return(orders, nil)
	f.catalog.On("FindAll", mock.Anything).Return([]models.Product{product(5, "Kettle"), product(9, "Toaster")}, nil)

	bundle, err := f.service.GetCustomerOrderedProducts(context.Background(), "Alex")

	require.NoError(t, err)
	assert.Equal(t, alex, bundle.Customer)
	assert.Equal(t, orders, bundle.Orders, "orders are returned unfiltered")
	assert.ElementsMatch(t, []int{5, 9}, productIDs(bundle.Products))
}

func TestGetProductsByCustomerName_FirstSeenOrder(t *testing.T) {
	f := setupTest()
	orders := []models.Order{
		{OrderID: 1, OrderLines: []*models.OrderLine{line(models.IntPtr(30)), line(models.IntPtr(10))}},
		{OrderID: 2, OrderLines: []*models.OrderLine{line(models.IntPtr(20)), line(models.IntPtr(30))}},
	}
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return(orders, nil)
	f.catalog.On("FindAll", mock.Anything).Return([]models.Product{product(10, "a"), product(20, "b"), product(30, "c")}, nil)

	products, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")

	require.NoError(t, err)
	assert.Equal(t, []int{30, 10, 20}, productIDs(products))
}

func TestGetProductsByCustomerName_Idempotent(t *testing.T) {
	f := setupTest()
	f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
	f.orders.On("FindByCustomerID", mock.Anything, 1).Return(mixedOrders(), nil)
	f.catalog.On("FindAll", mock.Anything).Return([]models.Product{product(5, "Kettle"), product(9, "Toaster")}, nil)

	first, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")
	require.NoError(t, err)
	second, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestGetProductsByCustomerName_UpstreamErrors(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("customers", func(t *testing.T) {
		f := setupTest()
		f.customers.On("FindByName", mock.Anything, "Alex").Return(nil, boom)

		_, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")
		assert.True(t, errors.Is(err, boom))
		assert.False(t, errors.Is(err, ErrCustomerNotFound))
	})

	t.Run("orders", func(t *testing.T) {
		f := setupTest()
		f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
		f.orders.On("FindByCustomerID", mock.Anything, 1).Return(nil, boom)

		_, err := f.service.GetProductsByCustomerName(context.Background(), "Alex")
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("catalog", func(t *testing.T) {
		f := setupTest()
		f.customers.On("FindByName", mock.Anything, "Alex").Return([]models.Customer{alex}, nil)
		f.orders.On("FindByCustomerID", mock.Anything, 1).Return(mixedOrders(), nil)
		f.catalog.On("FindAll", mock.Anything).Return(nil, boom)

		bundle, err := f.service.GetCustomerOrderedProducts(context.Background(), "Alex")
		assert.True(t, errors.Is(err, boom))
		assert.Nil(t, bundle)
	})
}

func TestCollectProductIDs(t *testing.T) {
	tests := []struct {
		name   string
		orders []models.Order
		want   []int
	}{
		{name: "no orders", orders: nil, want: []int{}},
		{name: "null line list", orders: []models.Order{{OrderID: 1}}, want: []int{}},
		{name: "mixed", orders: mixedOrders(), want: []int{5, 7, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectProductIDs(tt.orders))
		})
	}
}

func TestJoinCatalog(t *testing.T) {
	duplicate := models.Product{ProductID: models.IntPtr(5), ProductName: "Kettle v2"}
	catalog := []models.Product{
		product(5, "Kettle"),
		{ProductID: nil, ProductName: "Draft"},
		duplicate,
	}

	got := joinCatalog([]int{5, 6}, catalog)

	require.Len(t, got, 1)
	assert.Equal(t, duplicate, got[0], "last duplicate wins")
}
