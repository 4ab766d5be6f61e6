package dto

import (
	"encoding/json"
	"io"

	"storefront-api/internal/model"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CartItemRequest struct {
	ItemID string `json:"itemId" query:"itemId"`
	Size   string `json:"size" query:"size"`
}

// Images accepts either a single URL or a list of URLs. Any other shape
// decodes to an empty list.
type Images []string

func (im *Images) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*im = Images{}
		} else {
			*im = Images{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil || many == nil {
		*im = Images{}
		return nil
	}
	*im = many
	return nil
}

type OrderItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" validate:"gte=0"`
	Size      string  `json:"size" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Images    Images  `json:"images"`
}

type PlaceOrderRequest struct {
	Items    []*OrderItem  `json:"items"`
	Amount   float64       `json:"amount"`
	Address  model.JSONMap `json:"address"`
	Currency string        `json:"currency"`
}

type GatewayOrderResponse struct {
	Order   *model.GatewayOrder `json:"order"`
	DBOrder *model.Order        `json:"dbOrder"`
}

// VerifyPaymentRequest carries the gateway callback. The gateway's own field
// names are accepted as well.
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	Signature        string `json:"signature"`

	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (r *VerifyPaymentRequest) Normalize() {
	if r.GatewayOrderID == "" {
		r.GatewayOrderID = r.RazorpayOrderID
	}
	if r.GatewayPaymentID == "" {
		r.GatewayPaymentID = r.RazorpayPaymentID
	}
	if r.Signature == "" {
		r.Signature = r.RazorpaySignature
	}
}

type UpdateStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type ProductIDRequest struct {
	ID string `json:"id" form:"id"`
}

type UploadFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type AddProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"gt=0"`
	Category    string   `json:"category" validate:"required"`
	SubCategory string   `json:"subCategory" validate:"required"`
	Sizes       []string `json:"sizes" validate:"min=1,dive,required"`
	BestSeller  bool     `json:"bestSeller"`
	Featured    bool     `json:"featured"`
	NewArrival  bool     `json:"newArrival"`

	Images []UploadFile `json:"-"`
}
