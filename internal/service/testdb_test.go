package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/gearup-shop/internal/constants"
	"github.com/gearup-shop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// newServiceTestDB 打开独立的内存库并设置为全局 DB，供事务型服务使用
func newServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		AuthProvider: constants.AuthProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, sellerID uint, name string, price float64, stock int) *models.Product {
	t.Helper()
	now := time.Now().UTC()
	product := &models.Product{
		SellerID:   sellerID,
		Name:       name,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		Condition:  constants.ProductConditionGood,
		Quantity:   stock,
		DateListed: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}
