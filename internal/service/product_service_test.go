package service

import (
	"errors"
	"testing"

	"github.com/gearup-shop/internal/constants"
	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCreateProductRejectsInvalidInput(t *testing.T) {
	db := newServiceTestDB(t, "product_create_invalid")
	svc := NewProductService(repository.NewProductRepository(db))
	user := createTestUser(t, db, "seller@example.com")

	cases := []CreateProductInput{
		{SellerID: 0, Name: "Ball", Condition: constants.ProductConditionNew},
		{SellerID: user.ID, Name: "", Condition: constants.ProductConditionNew},
		{SellerID: user.ID, Name: "Ball", Condition: ""},
		{SellerID: user.ID, Name: "Ball", Condition: constants.ProductConditionNew, Quantity: -1},
		{SellerID: user.ID, Name: "Ball", Condition: constants.ProductConditionNew, Price: models.NewMoneyFromDecimal(decimal.NewFromInt(-1))},
	}
	for i, input := range cases {
		if _, err := svc.Create(input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got: %v", i, err)
		}
	}
}

func TestUpdateProductPatchesOnlyProvidedFields(t *testing.T) {
	db := newServiceTestDB(t, "product_patch")
	svc := NewProductService(repository.NewProductRepository(db))
	user := createTestUser(t, db, "seller@example.com")
	product := createTestProduct(t, db, user.ID, "Old Skates", 100, 4)

	newName := "Refurbished Skates"
	newPrice := models.NewMoneyFromDecimal(decimal.NewFromFloat(79.90))
	updated, err := svc.Update(product.ID, UpdateProductInput{
		Name:  &newName,
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("expected name %q, got %q", newName, updated.Name)
	}
	if updated.Price.String() != "79.90" {
		t.Fatalf("expected price 79.90, got %s", updated.Price.String())
	}
	// 未提供的字段保持原值
	if updated.Quantity != 4 {
		t.Fatalf("expected quantity unchanged, got %d", updated.Quantity)
	}
	if updated.Condition != constants.ProductConditionGood {
		t.Fatalf("expected condition unchanged, got %s", updated.Condition)
	}
}

func TestUpdateProductMissingDoesNotMutate(t *testing.T) {
	db := newServiceTestDB(t, "product_patch_missing")
	svc := NewProductService(repository.NewProductRepository(db))

	name := "Ghost"
	if _, err := svc.Update(404, UpdateProductInput{Name: &name}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got: %v", err)
	}
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no products created, got %d", count)
	}
}

func TestUpdateProductRejectsInvalidPatchValues(t *testing.T) {
	db := newServiceTestDB(t, "product_patch_invalid")
	svc := NewProductService(repository.NewProductRepository(db))
	user := createTestUser(t, db, "seller@example.com")
	product := createTestProduct(t, db, user.ID, "Bat", 30, 2)

	empty := ""
	if _, err := svc.Update(product.ID, UpdateProductInput{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty name, got: %v", err)
	}
	negative := -5
	if _, err := svc.Update(product.ID, UpdateProductInput{Quantity: &negative}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative quantity, got: %v", err)
	}
}

func TestDeleteProductReportsMissing(t *testing.T) {
	db := newServiceTestDB(t, "product_delete")
	svc := NewProductService(repository.NewProductRepository(db))
	user := createTestUser(t, db, "seller@example.com")
	product := createTestProduct(t, db, user.ID, "Cleats", 24, 1)

	found, err := svc.Delete(product.ID)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if !found {
		t.Fatalf("expected product to be found")
	}

	found, err = svc.Delete(product.ID)
	if err != nil {
		t.Fatalf("Delete second call error: %v", err)
	}
	if found {
		t.Fatalf("expected deleted product to report missing without error")
	}
}

func TestListClampsPageSize(t *testing.T) {
	db := newServiceTestDB(t, "product_list_clamp")
	svc := NewProductService(repository.NewProductRepository(db))
	user := createTestUser(t, db, "seller@example.com")
	createTestProduct(t, db, user.ID, "Ball", 10, 1)

	products, total, err := svc.List(repository.ProductListFilter{Page: 1, PageSize: 10000})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("expected single product, got total=%d len=%d", total, len(products))
	}

	// 没有匹配时返回空列表而不是错误
	products, total, err = svc.List(repository.ProductListFilter{Page: 1, PageSize: 10, Sport: "curling"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 0 || products == nil || len(products) != 0 {
		t.Fatalf("expected empty result, got total=%d products=%+v", total, products)
	}
}
