package shopclient

import (
	"fmt"
	"time"
)

// Cart mirrors the server cart: product id -> size -> quantity.
type Cart map[string]map[string]int

// Count returns the total number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, sizes := range c {
		for _, qty := range sizes {
			if qty > 0 {
				n += qty
			}
		}
	}
	return n
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory"`
	Sizes       []string  `json:"sizes"`
	Images      []string  `json:"images"`
	BestSeller  bool      `json:"bestSeller"`
	Featured    bool      `json:"featured"`
	NewArrival  bool      `json:"newArrival"`
	Date        time.Time `json:"date"`
}

type OrderItem struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Size      string   `json:"size"`
	Quantity  int      `json:"quantity"`
	Images    []string `json:"images"`
}

type Order struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	Items            []OrderItem    `json:"items"`
	Amount           float64        `json:"amount"`
	Address          map[string]any `json:"address"`
	Status           string         `json:"status"`
	PaymentMethod    string         `json:"paymentMethod"`
	Paid             bool           `json:"paid"`
	GatewayOrderID   string         `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string         `json:"gatewayPaymentId,omitempty"`
	Date             time.Time      `json:"date"`
	User             *User          `json:"user,omitempty"`
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type PlaceOrderRequest struct {
	Items    []OrderItem    `json:"items"`
	Amount   float64        `json:"amount"`
	Address  map[string]any `json:"address"`
	Currency string         `json:"currency,omitempty"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	Signature        string `json:"signature"`
}

// NewProduct is the admin form for adding a product. Images maps a file name
// to its content; at most four are sent.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Category    string
	SubCategory string
	Sizes       []string
	BestSeller  bool
	Featured    bool
	NewArrival  bool
	Images      []ImageFile
}

type ImageFile struct {
	Name string
	Data []byte
}

// APIError is a non-2xx response carrying the server's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: %d %s", e.StatusCode, e.Message)
}
