package storeclient

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wire types mirroring the storefront API. Prices travel as decimal
// strings and are kept exact on this side too.

type ProductType struct {
	ID          uuid.UUID       `json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	ProductID   uuid.UUID       `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
	ImageURL    string          `json:"imageUrl"`
}

type CartItem struct {
	ID            uuid.UUID       `json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	CartID        uuid.UUID       `json:"cartId"`
	ProductTypeID uuid.UUID       `json:"productTypeId"`
	ProductType   *ProductType    `json:"productType,omitempty"`
	Quantity      uint            `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
}

type Cart struct {
	CartItems []CartItem `json:"cartItems"`
	TotalItem uint       `json:"totalItem"`
	Subtotal  string     `json:"subtotal"`
}

type OrderItem struct {
	ID            uuid.UUID       `json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	OrderID       uuid.UUID       `json:"orderId"`
	ProductTypeID uuid.UUID       `json:"productTypeId"`
	ProductType   *ProductType    `json:"productType,omitempty"`
	Quantity      uint            `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
}

type Order struct {
	ID                uuid.UUID       `json:"id"`
	CreatedAt         time.Time       `json:"createdAt"`
	UserID            uuid.UUID       `json:"userId"`
	Status            string          `json:"status"`
	DeliveryAddressID uuid.UUID       `json:"deliveryAddressId"`
	DeliveryCharge    decimal.Decimal `json:"deliveryCharge"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	OrderNote         *string         `json:"orderNote"`
	PaymentMethod     string          `json:"paymentMethod"`
	OrderItems        []OrderItem     `json:"orderItems"`
}

type Meta struct {
	Page       int   `json:"page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type SubmitOrderRequest struct {
	FullName      string  `json:"fullName"`
	Email         string  `json:"email"`
	AddressLine1  string  `json:"addressLine1"`
	AddressLine2  string  `json:"addressLine2"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    string  `json:"postalCode"`
	Country       string  `json:"country"`
	Phone         string  `json:"phone"`
	AddressName   string  `json:"addressName"`
	IsDefault     bool    `json:"isDefault"`
	PaymentMethod string  `json:"paymentMethod"`
	OrderNote     *string `json:"orderNote"`
}

type OrderFilters struct {
	FullName string
	Email    string
	Status   string
}
