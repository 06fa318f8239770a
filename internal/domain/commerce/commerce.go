// Package commerce defines the catalog and order entities for the minimal
// storefront, plus the repository interfaces that abstract persistence.
package commerce

import "time"

// OrderStatus is the lifecycle stage of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderFulfilled OrderStatus = "FULFILLED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Product is a purchasable catalog entry. Prices are stored in cents.
type Product struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SKU        string    `json:"sku"`
	PriceCents int64     `json:"priceCents"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OrderItem is one product line within an order. UnitPriceCents is the
// catalog price at order time, not the current price.
type OrderItem struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// Order is a completed cart submission. Totals are computed server-side
// from catalog prices; payment processing happens elsewhere.
type Order struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Items      []OrderItem `json:"items"`
	TotalCents int64       `json:"totalCents"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// ProductRepository defines catalog read operations.
type ProductRepository interface {
	FindByID(id string) (*Product, error)
	FindAllActive() ([]*Product, error)
}

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Store(order *Order) error
	FindByID(id string) (*Order, error)
	FindAll() ([]*Order, error)
}
