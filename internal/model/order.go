package model

import "strings"

type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var orderStatuses = map[OrderStatus]struct{}{
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseOrderStatus lowercases s and reports whether it names a known status.
// Surrounding whitespace is not stripped.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(s))
	_, ok := orderStatuses[st]
	return st, ok
}

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "COD"
	PaymentGateway PaymentMethod = "GATEWAY"
)

// Cart is productID -> size -> quantity.
type Cart map[string]map[string]int

func CartFromItems(items []*CartItem) Cart {
	cart := Cart{}
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		sizes, ok := cart[it.ProductID]
		if !ok {
			sizes = map[string]int{}
			cart[it.ProductID] = sizes
		}
		sizes[it.Size] = it.Quantity
	}
	return cart
}

// Count is the total number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, sizes := range c {
		for _, q := range sizes {
			if q > 0 {
				n += q
			}
		}
	}
	return n
}
