package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	FullName     string    `gorm:"not null"         json:"fullName"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	Role         string    `gorm:"not null"         json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uuid.UUID `gorm:"index;not null"  json:"userId"`
	ExpiresAt time.Time `gorm:"not null"        json:"expiresAt"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}

type Product struct {
	ID          uuid.UUID     `gorm:"primaryKey"            json:"id"`
	CreatedAt   time.Time     `json:"createdAt"`
	Name        string        `gorm:"not null"              json:"name"`
	Description string        `json:"description"`
	IsDeleted   bool          `gorm:"default:false"         json:"isDeleted"`
	Types       []ProductType `gorm:"foreignKey:ProductID"  json:"types,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductType is a purchasable variant of a product, carrying its own
// price and stock.
type ProductType struct {
	ID          uuid.UUID       `gorm:"primaryKey"     json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	ProductID   uuid.UUID       `gorm:"index;not null" json:"productId"`
	Product     *Product        `json:"product,omitempty"`
	Name        string          `gorm:"not null"       json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Stock       uint            `gorm:"not null"       json:"stock"`
	ImageURL    string          `json:"imageUrl"`
}

func (p *ProductType) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Cart is created lazily on the first add; one cart per user.
type Cart struct {
	ID        uuid.UUID `gorm:"primaryKey"           json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uuid.UUID `gorm:"uniqueIndex;not null" json:"userId"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartItem is one cart line. Price is the unit price snapshot taken
// when the line was added, not the live product price. Quantity is
// always positive while the row exists; driving it to zero removes
// the row.
type CartItem struct {
	ID            uuid.UUID       `gorm:"primaryKey"                                 json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	CartID        uuid.UUID       `gorm:"uniqueIndex:idx_cart_product_type;not null" json:"cartId"`
	ProductTypeID uuid.UUID       `gorm:"uniqueIndex:idx_cart_product_type;not null" json:"productTypeId"`
	ProductType   *ProductType    `json:"productType,omitempty"`
	Quantity      uint            `gorm:"default:1;check:quantity>0"                 json:"quantity"`
	Price         decimal.Decimal `gorm:"type:numeric;not null"                      json:"price"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Address struct {
	ID           uuid.UUID `gorm:"primaryKey"     json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UserID       uuid.UUID `gorm:"index;not null" json:"userId"`
	FullName     string    `gorm:"not null"       json:"fullName"`
	Email        string    `gorm:"not null"       json:"email"`
	AddressLine1 string    `gorm:"not null"       json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2"`
	City         string    `gorm:"not null"       json:"city"`
	State        string    `gorm:"not null"       json:"state"`
	PostalCode   string    `gorm:"not null"       json:"postalCode"`
	Country      string    `gorm:"not null"       json:"country"`
	Phone        string    `gorm:"not null"       json:"phone"`
	IsDefault    bool      `gorm:"default:false"  json:"isDefault"`
	AddressName  string    `gorm:"default:home"   json:"addressName"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Order is an immutable snapshot of cart contents at submission time.
// Only Status changes after creation.
type Order struct {
	ID                uuid.UUID       `gorm:"primaryKey"            json:"id"`
	CreatedAt         time.Time       `json:"createdAt"`
	UserID            uuid.UUID       `gorm:"index;not null"        json:"userId"`
	Status            string          `gorm:"not null"              json:"status"`
	DeliveryAddressID uuid.UUID       `gorm:"not null"              json:"deliveryAddressId"`
	DeliveryCharge    decimal.Decimal `gorm:"type:numeric;not null" json:"deliveryCharge"`
	TotalPrice        decimal.Decimal `gorm:"type:numeric;not null" json:"totalPrice"`
	OrderNote         *string         `json:"orderNote"`
	PaymentMethod     string          `gorm:"not null"              json:"paymentMethod"`
	OrderItems        []OrderItem     `gorm:"foreignKey:OrderID"    json:"orderItems"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID            uuid.UUID       `gorm:"primaryKey"            json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	OrderID       uuid.UUID       `gorm:"index;not null"        json:"orderId"`
	ProductTypeID uuid.UUID       `gorm:"not null"              json:"productTypeId"`
	ProductType   *ProductType    `json:"productType,omitempty"`
	Quantity      uint            `gorm:"check:quantity>0"      json:"quantity"`
	Price         decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string {
	return "order_items"
}
