package service

import (
	"strings"
	"time"

	"github.com/gearup-shop/internal/constants"
	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	SellerID        uint
	Name            string
	Description     string
	Price           models.Money
	Brand           string
	Sport           string
	Gender          string
	Size            string
	YouthSize       bool
	Featured        bool
	Condition       string
	Quantity        int
	Image           []byte
	YearProductMade *int
}

// UpdateProductInput 更新商品输入。
// 指针字段为 nil 表示未提供，不修改对应列。
type UpdateProductInput struct {
	Name            *string
	Description     *string
	Price           *models.Money
	Brand           *string
	Sport           *string
	Gender          *string
	Size            *string
	YouthSize       *bool
	Featured        *bool
	Condition       *string
	Quantity        *int
	Image           []byte
	YearProductMade *int
}

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// List 商品列表（过滤 + 分页），没有匹配时返回空列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, total, nil
}

// Create 创建商品
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	condition := strings.TrimSpace(input.Condition)
	if input.SellerID == 0 || name == "" || condition == "" {
		return nil, ErrInvalidInput
	}
	if input.Price.LessThan(decimal.Zero) || input.Quantity < 0 {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	product := &models.Product{
		SellerID:        input.SellerID,
		Name:            name,
		Description:     input.Description,
		Price:           input.Price,
		Brand:           strings.TrimSpace(input.Brand),
		Sport:           strings.TrimSpace(input.Sport),
		Gender:          strings.TrimSpace(input.Gender),
		Size:            strings.TrimSpace(input.Size),
		YouthSize:       input.YouthSize,
		Featured:        input.Featured,
		Condition:       condition,
		Quantity:        input.Quantity,
		Image:           input.Image,
		YearProductMade: input.YearProductMade,
		DateListed:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 按提供的字段更新商品；商品不存在时不做任何变更
func (s *ProductService) Update(id uint, input UpdateProductInput) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.LessThan(decimal.Zero) {
			return nil, ErrInvalidInput
		}
		fields["price"] = *input.Price
	}
	if input.Brand != nil {
		fields["brand"] = strings.TrimSpace(*input.Brand)
	}
	if input.Sport != nil {
		fields["sport"] = strings.TrimSpace(*input.Sport)
	}
	if input.Gender != nil {
		fields["gender"] = strings.TrimSpace(*input.Gender)
	}
	if input.Size != nil {
		fields["size"] = strings.TrimSpace(*input.Size)
	}
	if input.YouthSize != nil {
		fields["youth_size"] = *input.YouthSize
	}
	if input.Featured != nil {
		fields["featured"] = *input.Featured
	}
	if input.Condition != nil {
		condition := strings.TrimSpace(*input.Condition)
		if condition == "" {
			return nil, ErrInvalidInput
		}
		fields["condition"] = condition
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, ErrInvalidInput
		}
		fields["quantity"] = *input.Quantity
	}
	if len(input.Image) > 0 {
		fields["image"] = input.Image
	}
	if input.YearProductMade != nil {
		fields["year_product_made"] = *input.YearProductMade
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		if err := s.productRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}
	return s.productRepo.GetByID(id)
}

// Delete 删除商品，返回是否存在
func (s *ProductService) Delete(id uint) (bool, error) {
	if id == 0 {
		return false, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, nil
	}
	if err := s.productRepo.Delete(id); err != nil {
		return false, err
	}
	return true, nil
}
