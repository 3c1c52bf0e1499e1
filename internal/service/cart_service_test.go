package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/repository"

	"github.com/shopspring/decimal"
)

func TestAddItemCreatesCartWhenMissing(t *testing.T) {
	db := newServiceTestDB(t, "cart_add_creates")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Basketball", 39.99, 10)

	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if detail.UserID != user.ID {
		t.Fatalf("expected cart for user %d, got %d", user.ID, detail.UserID)
	}
	if len(detail.Items) != 1 || detail.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart items: %+v", detail.Items)
	}
	if detail.Subtotal.String() != "79.98" {
		t.Fatalf("expected subtotal 79.98, got %s", detail.Subtotal.String())
	}
}

func TestAddItemMergesDuplicateProductLines(t *testing.T) {
	db := newServiceTestDB(t, "cart_add_merge")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Hockey Stick", 10, 20)

	if _, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first AddItem error: %v", err)
	}
	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second AddItem error: %v", err)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected single merged line, got %d", len(detail.Items))
	}
	if detail.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", detail.Items[0].Quantity)
	}
	if detail.Subtotal.String() != "50.00" {
		t.Fatalf("expected subtotal 50.00, got %s", detail.Subtotal.String())
	}
}

func TestCartSubtotalMatchesLineSum(t *testing.T) {
	db := newServiceTestDB(t, "cart_subtotal")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	ball := createTestProduct(t, db, user.ID, "Ball", 12.50, 10)
	bat := createTestProduct(t, db, user.ID, "Bat", 30, 10)

	if _, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: ball.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: bat.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	expected := decimal.Zero
	for _, line := range detail.Items {
		expected = expected.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if !detail.Subtotal.Equal(expected) {
		t.Fatalf("subtotal %s does not match line sum %s", detail.Subtotal.String(), expected.String())
	}
	if detail.Subtotal.String() != "55.00" {
		t.Fatalf("expected subtotal 55.00, got %s", detail.Subtotal.String())
	}
}

func TestAddItemRejectsMissingProduct(t *testing.T) {
	db := newServiceTestDB(t, "cart_add_missing_product")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")

	if _, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: 999, Quantity: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got: %v", err)
	}
}

func TestUpdateItemQuantityZeroRemovesLine(t *testing.T) {
	db := newServiceTestDB(t, "cart_update_zero")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Gloves", 15, 10)

	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	updated, err := svc.UpdateItemQuantity(detail.ID, detail.Items[0].ID, 0)
	if err != nil {
		t.Fatalf("UpdateItemQuantity error: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Fatalf("expected line removed, got %d items", len(updated.Items))
	}
	if updated.Subtotal.String() != "0.00" {
		t.Fatalf("expected subtotal 0.00, got %s", updated.Subtotal.String())
	}
}

func TestUpdateItemQuantityRejectsInsufficientStock(t *testing.T) {
	db := newServiceTestDB(t, "cart_update_stock")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Rare Jersey", 80, 1)

	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	if _, err := svc.UpdateItemQuantity(detail.ID, detail.Items[0].ID, 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}

	// 拒绝后数量与小计保持不变
	current, err := svc.GetCartByUser(user.ID)
	if err != nil {
		t.Fatalf("GetCartByUser error: %v", err)
	}
	if len(current.Items) != 1 || current.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity unchanged, got %+v", current.Items)
	}
}

func TestUpdateItemQuantityMissingCartAndItem(t *testing.T) {
	db := newServiceTestDB(t, "cart_update_missing")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Helmet", 45, 5)

	if _, err := svc.UpdateItemQuantity(42, 1, 1); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected cart not found, got: %v", err)
	}

	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if _, err := svc.UpdateItemQuantity(detail.ID, 999, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected cart item not found, got: %v", err)
	}
}

func TestCreateCartConflict(t *testing.T) {
	db := newServiceTestDB(t, "cart_create_conflict")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")

	if _, err := svc.CreateCart(user.ID, models.NewMoneyFromDecimal(decimal.Zero)); err != nil {
		t.Fatalf("CreateCart error: %v", err)
	}
	if _, err := svc.CreateCart(user.ID, models.NewMoneyFromDecimal(decimal.Zero)); !errors.Is(err, ErrCartExists) {
		t.Fatalf("expected cart exists, got: %v", err)
	}
}

func TestDeleteCartRemovesItems(t *testing.T) {
	db := newServiceTestDB(t, "cart_delete")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Shin Guards", 18, 6)

	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	found, err := svc.DeleteCart(detail.ID)
	if err != nil {
		t.Fatalf("DeleteCart error: %v", err)
	}
	if !found {
		t.Fatalf("expected cart to be found")
	}

	if _, err := svc.GetCartByUser(user.ID); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected cart not found after delete, got: %v", err)
	}

	var itemCount int64
	if err := db.Model(&models.CartItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("expected 0 cart items after delete, got %d", itemCount)
	}

	found, err = svc.DeleteCart(detail.ID)
	if err != nil {
		t.Fatalf("DeleteCart second call error: %v", err)
	}
	if found {
		t.Fatalf("expected already-deleted cart to report not found")
	}
}

func TestRemoveItemMissingCartAndItem(t *testing.T) {
	db := newServiceTestDB(t, "cart_remove_missing")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Goalie Gloves", 30, 4)

	if _, err := svc.RemoveItem(42, 1); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected cart not found, got: %v", err)
	}

	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if _, err := svc.RemoveItem(detail.ID, 999); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected cart item not found, got: %v", err)
	}
}

func TestRemoveItemRecomputesSubtotal(t *testing.T) {
	db := newServiceTestDB(t, "cart_remove_subtotal")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	bat := createTestProduct(t, db, user.ID, "Baseball Bat", 60, 3)
	glove := createTestProduct(t, db, user.ID, "Baseball Glove", 35, 3)

	if _, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: bat.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: glove.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	var batLine *CartLineItem
	for i := range detail.Items {
		if detail.Items[i].ProductID == bat.ID {
			batLine = &detail.Items[i]
		}
	}
	if batLine == nil {
		t.Fatalf("expected bat line in cart: %+v", detail.Items)
	}

	after, err := svc.RemoveItem(detail.ID, batLine.ID)
	if err != nil {
		t.Fatalf("RemoveItem error: %v", err)
	}
	if len(after.Items) != 1 || after.Items[0].ProductID != glove.ID {
		t.Fatalf("expected only glove line left, got %+v", after.Items)
	}
	if after.Subtotal.String() != "70.00" {
		t.Fatalf("expected subtotal 70.00 after removal, got %s", after.Subtotal.String())
	}
}

func TestCartLineItemSerializesProductPrice(t *testing.T) {
	db := newServiceTestDB(t, "cart_line_json")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Tennis Racket", 99.5, 2)

	detail, err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	data, err := json.Marshal(detail)
	if err != nil {
		t.Fatalf("marshal cart detail error: %v", err)
	}
	if !strings.Contains(string(data), `"product_price":"99.50"`) {
		t.Fatalf("expected product_price field in cart json, got %s", string(data))
	}
	if strings.Contains(string(data), `"unit_price"`) {
		t.Fatalf("unexpected unit_price field in cart json: %s", string(data))
	}
}
