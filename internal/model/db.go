package model

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"` // stored lowercased
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// CartItem is one (product, size) line of a user's cart. Rows with a
// non-positive quantity are never left behind.
type CartItem struct {
	UserID    string `gorm:"primaryKey;size:36;not null"`
	ProductID string `gorm:"primaryKey;size:64;not null"`
	Size      string `gorm:"primaryKey;size:32;not null"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          string     `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Price       float64    `gorm:"not null" json:"price"`
	Category    string     `gorm:"size:64;index;not null" json:"category"`
	SubCategory string     `gorm:"size:64;index;not null" json:"subCategory"`
	Sizes       StringList `json:"sizes"`
	Images      StringList `json:"images"`
	BestSeller  bool       `gorm:"not null;default:false" json:"bestSeller"`
	Featured    bool       `gorm:"not null;default:false" json:"featured"`
	NewArrival  bool       `gorm:"not null;default:false" json:"newArrival"`
	CreatedAt   time.Time  `gorm:"index" json:"date"`
	UpdatedAt   time.Time  `json:"-"`
}

type Order struct {
	ID               string        `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID           string        `gorm:"size:36;index;not null" json:"userId"`
	Items            []*OrderItem  `gorm:"foreignKey:OrderID" json:"items"`
	Amount           float64       `gorm:"not null" json:"amount"`
	Address          JSONMap       `json:"address"`
	Status           OrderStatus   `gorm:"size:32;index;not null" json:"status"`
	PaymentMethod    PaymentMethod `gorm:"size:16;index;not null" json:"paymentMethod"`
	Paid             bool          `gorm:"not null;default:false" json:"paid"`
	GatewayOrderID   *string       `gorm:"size:64;index" json:"gatewayOrderId,omitempty"`
	GatewayPaymentID *string       `gorm:"size:64" json:"gatewayPaymentId,omitempty"`
	CreatedAt        time.Time     `gorm:"index" json:"date"`
	UpdatedAt        time.Time     `json:"updatedAt"`

	// only loaded for the admin listing
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// OrderItem is a copy of the product line taken when the order was placed.
type OrderItem struct {
	ID        uint       `gorm:"primaryKey" json:"-"`
	OrderID   string     `gorm:"size:36;index;not null" json:"-"`
	ProductID string     `gorm:"size:64;index;not null" json:"productId"`
	Name      string     `gorm:"size:255" json:"name"`
	Price     float64    `json:"price"`
	Size      string     `gorm:"size:32;not null" json:"size"`
	Quantity  int        `gorm:"not null" json:"quantity"`
	Images    StringList `json:"images"`
}
