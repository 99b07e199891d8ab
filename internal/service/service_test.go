package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/models"
	"github.com/kmoroz/storefront/internal/repo"
)

func initTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Product{},
		&models.ProductType{},
		&models.Cart{},
		&models.CartItem{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return &repo.GormRepo{DB: db}
}

func seedUser(t *testing.T, r *repo.GormRepo) uuid.UUID {
	t.Helper()

	user := &models.User{
		Email:        uuid.NewString() + "@example.com",
		FullName:     "Test User",
		PasswordHash: "x",
		Role:         "user",
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user.ID
}

func seedProductType(t *testing.T, r *repo.GormRepo, price string, stock uint) *models.ProductType {
	t.Helper()

	product := &models.Product{
		Name: "hoodie",
		Types: []models.ProductType{{
			Name:  "hoodie / M",
			Price: decimal.RequireFromString(price),
			Stock: stock,
		}},
	}
	require.NoError(t, r.CreateProduct(context.Background(), product))
	return &product.Types[0]
}
