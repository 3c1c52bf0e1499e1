package service

import (
	"time"

	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLineItem 购物车项详情（用于响应）
type CartLineItem struct {
	ID          uint         `json:"id"`
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   models.Money `json:"product_price"`
	Quantity    int          `json:"quantity"`
	LineTotal   models.Money `json:"line_total"`
}

// CartDetail 购物车详情（用于响应）
type CartDetail struct {
	ID       uint           `json:"id"`
	UserID   uint           `json:"user_id"`
	Subtotal models.Money   `json:"subtotal"`
	Items    []CartLineItem `json:"items"`
}

// AddCartItemInput 添加购物车项输入
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// CartService 购物车服务。
// 加入购物车不校验库存，库存在修改数量与结账时强制校验。
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCartByUser 获取用户购物车详情（不存在时不自动创建）
func (s *CartService) GetCartByUser(userID uint) (*CartDetail, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return s.buildDetail(s.cartRepo, cart)
}

// CreateCart 为用户显式创建空购物车（已存在时返回冲突）
func (s *CartService) CreateCart(userID uint, subtotal models.Money) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	existing, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCartExists
	}
	now := time.Now().UTC()
	cart := &models.Cart{
		UserID:    userID,
		Subtotal:  subtotal,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem 添加商品到购物车。
// 购物车不存在时自动创建；同商品已有行时合并数量而不是新增一行；
// 每次变更后重算小计。整个过程单事务执行。
func (s *CartService) AddItem(input AddCartItemInput) (*CartDetail, error) {
	if input.UserID == 0 || input.ProductID == 0 || input.Quantity <= 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	var detail *CartDetail
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.GetByUser(input.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			now := time.Now().UTC()
			cart = &models.Cart{
				UserID:    input.UserID,
				Subtotal:  models.NewMoneyFromDecimal(decimal.Zero),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := cartRepo.Create(cart); err != nil {
				return err
			}
		}

		existing, err := cartRepo.GetItemByProduct(cart.ID, input.ProductID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity+input.Quantity); err != nil {
				return err
			}
		} else {
			now := time.Now().UTC()
			item := &models.CartItem{
				CartID:    cart.ID,
				ProductID: input.ProductID,
				Quantity:  input.Quantity,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := cartRepo.CreateItem(item); err != nil {
				return err
			}
		}

		detail, err = s.recomputeSubtotal(cartRepo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateItemQuantity 修改购物车项数量。
// 数量为 0 时删除该行；超过商品库存时拒绝；重算小计。单事务，整体成功或整体失败。
func (s *CartService) UpdateItemQuantity(cartID, itemID uint, quantity int) (*CartDetail, error) {
	if cartID == 0 || itemID == 0 || quantity < 0 {
		return nil, ErrInvalidInput
	}

	var detail *CartDetail
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		cart, err := cartRepo.GetByID(cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		item, err := cartRepo.GetItem(cartID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}

		if quantity == 0 {
			if err := cartRepo.DeleteItem(item.ID); err != nil {
				return err
			}
		} else {
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}
			if product.Quantity < quantity {
				return ErrInsufficientStock
			}
			if err := cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
				return err
			}
		}

		detail, err = s.recomputeSubtotal(cartRepo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// RemoveItem 删除购物车项并重算小计
func (s *CartService) RemoveItem(cartID, itemID uint) (*CartDetail, error) {
	if cartID == 0 || itemID == 0 {
		return nil, ErrInvalidInput
	}

	var detail *CartDetail
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.GetByID(cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		item, err := cartRepo.GetItem(cartID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		if err := cartRepo.DeleteItem(item.ID); err != nil {
			return err
		}

		detail, err = s.recomputeSubtotal(cartRepo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteCart 删除购物车及其全部项，返回是否存在
func (s *CartService) DeleteCart(cartID uint) (bool, error) {
	if cartID == 0 {
		return false, ErrInvalidInput
	}
	found := false
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		if err := cartRepo.DeleteItemsByCart(cartID); err != nil {
			return err
		}
		affected, err := cartRepo.Delete(cartID)
		if err != nil {
			return err
		}
		found = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// recomputeSubtotal 重算小计并落库，保证 subtotal == Σ 数量×单价
func (s *CartService) recomputeSubtotal(cartRepo repository.CartRepository, cart *models.Cart) (*CartDetail, error) {
	items, err := cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	lines := make([]CartLineItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, CartLineItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			UnitPrice:   item.Product.Price,
			Quantity:    item.Quantity,
			LineTotal:   models.NewMoneyFromDecimal(lineTotal),
		})
	}

	money := models.NewMoneyFromDecimal(subtotal)
	if err := cartRepo.UpdateSubtotal(cart.ID, money); err != nil {
		return nil, err
	}

	return &CartDetail{
		ID:       cart.ID,
		UserID:   cart.UserID,
		Subtotal: money,
		Items:    lines,
	}, nil
}

// buildDetail 构建购物车详情（只读，不落库）
func (s *CartService) buildDetail(cartRepo repository.CartRepository, cart *models.Cart) (*CartDetail, error) {
	items, err := cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	lines := make([]CartLineItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, CartLineItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			UnitPrice:   item.Product.Price,
			Quantity:    item.Quantity,
			LineTotal:   models.NewMoneyFromDecimal(lineTotal),
		})
	}
	return &CartDetail{
		ID:       cart.ID,
		UserID:   cart.UserID,
		Subtotal: cart.Subtotal,
		Items:    lines,
	}, nil
}
