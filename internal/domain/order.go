package domain

import "time"

// OrderStatus is the fulfillment state of an order. Only the backend moves
// an order between states; the admin dashboard may request a move.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Open reports whether the order can still change (not delivered or cancelled).
func (s OrderStatus) Open() bool {
	return s != OrderDelivered && s != OrderCancelled
}

// Next returns the statuses the lifecycle normally moves to from s.
// pending -> processing -> shipped -> delivered, with cancellation allowed
// until the order ships.
func (s OrderStatus) Next() []OrderStatus {
	switch s {
	case OrderPending:
		return []OrderStatus{OrderProcessing, OrderCancelled}
	case OrderProcessing:
		return []OrderStatus{OrderShipped, OrderCancelled}
	case OrderShipped:
		return []OrderStatus{OrderDelivered}
	default:
		return nil
	}
}

// OrderCustomer is the contact snapshot captured at checkout.
type OrderCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderItem is a line item frozen at order time, decoupled from the live product.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     Money  `json:"price"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// NewOrder is the payload for POST /orders.
type NewOrder struct {
	Customer        OrderCustomer `json:"customer"`
	ShippingAddress Address       `json:"shippingAddress"`
	Items           []OrderItem   `json:"items"`
	Subtotal        Money         `json:"subtotal"`
	Tax             Money         `json:"tax"`
	Shipping        Money         `json:"shipping"`
	Total           Money         `json:"total"`
	PaymentMethod   string        `json:"paymentMethod"`
}

// Order is the backend's order aggregate.
type Order struct {
	ID              string        `json:"_id"`
	OrderNumber     string        `json:"orderNumber"`
	Customer        OrderCustomer `json:"customer"`
	ShippingAddress Address       `json:"shippingAddress"`
	Items           []OrderItem   `json:"items"`
	Subtotal        Money         `json:"subtotal"`
	Tax             Money         `json:"tax"`
	Shipping        Money         `json:"shipping"`
	Total           Money         `json:"total"`
	PaymentMethod   string        `json:"paymentMethod"`
	Status          OrderStatus   `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// OrderList is the admin order listing.
type OrderList struct {
	Orders     []Order     `json:"orders"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
