package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/repository"
)

func TestCreateOrderConvertsCartToOrder(t *testing.T) {
	db := newServiceTestDB(t, "order_checkout")
	cartSvc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	orderSvc := NewOrderService(repository.NewOrderRepository(db), repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	ball := createTestProduct(t, db, user.ID, "Basketball", 50, 5)
	pump := createTestProduct(t, db, user.ID, "Pump", 25, 3)

	if _, err := cartSvc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: ball.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if _, err := cartSvc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: pump.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	order, err := orderSvc.CreateOrder(user.ID)
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.Total.String() != "125.00" {
		t.Fatalf("expected total 125.00, got %s", order.Total.String())
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.ProductName == "" || item.UnitPrice.IsZero() {
			t.Fatalf("expected snapshot fields on order item: %+v", item)
		}
	}

	// 库存已扣减
	var ballRow models.Product
	if err := db.First(&ballRow, ball.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if ballRow.Quantity != 3 {
		t.Fatalf("expected ball stock 3 after checkout, got %d", ballRow.Quantity)
	}
	var pumpRow models.Product
	if err := db.First(&pumpRow, pump.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if pumpRow.Quantity != 2 {
		t.Fatalf("expected pump stock 2 after checkout, got %d", pumpRow.Quantity)
	}

	// 购物车已清空
	if _, err := cartSvc.GetCartByUser(user.ID); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected cart gone after checkout, got: %v", err)
	}
	var itemCount int64
	if err := db.Model(&models.CartItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("expected 0 cart items after checkout, got %d", itemCount)
	}
}

func TestCreateOrderMissingCart(t *testing.T) {
	db := newServiceTestDB(t, "order_no_cart")
	orderSvc := NewOrderService(repository.NewOrderRepository(db), repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")

	if _, err := orderSvc.CreateOrder(user.ID); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected cart not found, got: %v", err)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := newServiceTestDB(t, "order_empty_cart")
	cartSvc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	orderSvc := NewOrderService(repository.NewOrderRepository(db), repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")

	if _, err := cartSvc.CreateCart(user.ID, models.Money{}); err != nil {
		t.Fatalf("CreateCart error: %v", err)
	}
	if _, err := orderSvc.CreateOrder(user.ID); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected cart empty, got: %v", err)
	}
}

func TestCreateOrderInsufficientStockLeavesStateUntouched(t *testing.T) {
	db := newServiceTestDB(t, "order_stock_reject")
	cartSvc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	orderSvc := NewOrderService(repository.NewOrderRepository(db), repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, user.ID, "Limited Jersey", 120, 1)

	if _, err := cartSvc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	// 结账前库存被别人买走
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("quantity", 0).Error; err != nil {
		t.Fatalf("update stock failed: %v", err)
	}

	if _, err := orderSvc.CreateOrder(user.ID); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}

	// 失败的结账不得留下任何痕迹
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected 0 orders after failed checkout, got %d", orderCount)
	}
	detail, err := cartSvc.GetCartByUser(user.ID)
	if err != nil {
		t.Fatalf("expected cart to survive failed checkout: %v", err)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected cart items to survive failed checkout, got %d", len(detail.Items))
	}
}

func TestListByUserReturnsEmptySlice(t *testing.T) {
	db := newServiceTestDB(t, "order_list_empty")
	orderSvc := NewOrderService(repository.NewOrderRepository(db), repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "buyer@example.com")

	orders, err := orderSvc.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Fatalf("expected empty slice, got %+v", orders)
	}
}

func TestOrderItemSerializesSnapshotPrice(t *testing.T) {
	item := models.OrderItem{
		ProductID:   3,
		ProductName: "Basketball",
		UnitPrice:   models.NewMoneyFromFloat(50),
		Quantity:    2,
	}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal order item error: %v", err)
	}
	if !strings.Contains(string(data), `"price":"50.00"`) {
		t.Fatalf("expected price field in order item json, got %s", string(data))
	}
	if strings.Contains(string(data), `"unit_price"`) {
		t.Fatalf("unexpected unit_price field in order item json: %s", string(data))
	}
}
