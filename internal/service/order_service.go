package service

import (
	"time"

	"github.com/gearup-shop/internal/logger"
	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CreateOrder 结账：把用户购物车转为订单。
// 先完整校验（购物车存在、非空、商品存在、库存充足），再在单事务内落库：
// 创建订单与订单项快照、条件扣减库存、删除购物车及其项。任一步失败整体回滚。
func (s *OrderService) CreateOrder(userID uint) (*models.Order, error) {
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
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	// 先校验后变更：任何商品缺失或库存不足都在写入前拒绝
	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}
	for _, item := range items {
		product, ok := productByID[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if product.Quantity < item.Quantity {
			return nil, ErrInsufficientStock
		}
	}

	now := time.Now().UTC()
	order := &models.Order{
		UserID:    userID,
		Total:     cart.Subtotal,
		OrderDate: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		if err := orderRepo.Create(order); err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product := productByID[item.ProductID]
			orderItems = append(orderItems, models.OrderItem{
				OrderID:     order.ID,
				ProductID:   item.ProductID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    item.Quantity,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		if err := orderRepo.CreateItems(orderItems); err != nil {
			return err
		}
		order.Items = orderItems

		// 条件扣减是提交前的二次校验：并发下库存不足时 0 行命中，整体回滚
		for _, item := range items {
			affected, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}

		if err := cartRepo.DeleteItemsByCart(cart.ID); err != nil {
			return err
		}
		if _, err := cartRepo.Delete(cart.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"user_id", userID,
		"total", order.Total.String(),
		"item_count", len(order.Items),
	)
	return order, nil
}

// ListByUser 获取用户全部订单（含订单项），没有订单时返回空列表
func (s *OrderService) ListByUser(userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	orders, _, err := s.orderRepo.List(repository.OrderListFilter{
		UserID:    userID,
		WithItems: true,
	})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
