package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmoroz/storefront/internal/models"
)

// Envelope is the single response wrapper for list endpoints. Clients
// unwrap it in exactly one place.
type Envelope struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewMeta(page int, total int64, perPage int) *Meta {
	if perPage <= 0 {
		perPage = 10
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Meta{Page: page, Total: total, TotalPages: pages}
}

// CartResponse mirrors the wire shape of GET /carts: the item list plus
// the derived item count. Kept unenveloped for client compatibility.
type CartResponse struct {
	CartItems []models.CartItem `json:"cartItems"`
	TotalItem uint              `json:"totalItem"`
	Subtotal  string            `json:"subtotal"`
}

type AddCartItemRequest struct {
	ProductTypeID uuid.UUID `json:"productTypeId"`
	Quantity      uint      `json:"quantity"`
}

// UpdateQuantityRequest sets a cart line quantity. Quantity 0 means
// removal and requires Confirmed to be set.
type UpdateQuantityRequest struct {
	Quantity  *uint `json:"quantity"`
	Confirmed bool  `json:"confirmed"`
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

type CreateProductRequest struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Types       []CreateProductTypeRequest `json:"types"`
}

type CreateProductTypeRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
	ImageURL    string          `json:"imageUrl"`
}

type PatchProductTypeRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *uint            `json:"stock"`
	ImageURL    *string          `json:"imageUrl"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	AccessExp    int64  `json:"accessExp"`
	RefreshExp   int64  `json:"refreshExp"`
}

type ChartPoint struct {
	Date    string `json:"date"`
	Revenue string `json:"revenue"`
}

type RevenueResponse struct {
	Daily     string       `json:"daily"`
	Weekly    string       `json:"weekly"`
	Monthly   string       `json:"monthly"`
	Yearly    string       `json:"yearly"`
	ChartData []ChartPoint `json:"chartData"`
}
