package models

import (
	"github.com/shopspring/decimal"
)

// JSON field names follow the upstream customer/order/product services.

type Customer struct {
	CustomerID   int    `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
}

type OrderLine struct {
	// nil when the upstream sent no product reference
	ProductID *int            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	OrderID       int             `json:"order_id"`
	CustomerID    int             `json:"customer_id"`
	OrderTotal    decimal.Decimal `json:"order_total"`
	OrderDatetime string          `json:"order_datetime"`
	// both the list and its entries may be null in upstream payloads
	OrderLines []*OrderLine `json:"order_lines"`
}

type Product struct {
	ProductID   *int            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// CustomerOrderedProducts is the bundle returned by the full customer query.
// Orders is the unfiltered order list; Products is deduplicated and catalog-filtered.
type CustomerOrderedProducts struct {
	Customer Customer  `json:"customer"`
	Orders   []Order   `json:"orders"`
	Products []Product `json:"products"`
}

// IntPtr is a helper for building nullable identifiers.
func IntPtr(v int) *int {
	return &v
}
