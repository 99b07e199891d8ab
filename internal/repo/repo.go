package repo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned when an add would exceed the product
// type's available stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidTransition is returned when an order status change is not
// permitted from the order's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

type GormRepo struct {
	DB *gorm.DB
}

// forUpdate applies a row lock on dialects that support one. The sqlite
// driver used in tests has no FOR UPDATE syntax; its transactions already
// serialize writers.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
