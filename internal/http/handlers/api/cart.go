package api

import (
	"errors"

	"github.com/gearup-shop/internal/http/response"
	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateCartRequest 创建购物车请求
type CreateCartRequest struct {
	Subtotal models.Money `json:"subtotal"`
}

// AddCartItemRequest 添加购物车项请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 修改购物车项数量请求（0 表示删除该行）
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid cart input"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "insufficient stock"},
}

// GetCart 获取当前用户购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	detail, err := h.CartService.GetCartByUser(uid)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			respondError(c, response.CodeNotFound, "cart not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch cart failed", err)
		return
	}
	response.Success(c, detail)
}

// CreateCart 为当前用户创建空购物车
func (h *Handler) CreateCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	cart, err := h.CartService.CreateCart(uid, req.Subtotal)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrCartExists, code: response.CodeConflict, msg: "cart already exists"},
			{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid cart input"},
		}, response.CodeInternal, "create cart failed")
		return
	}
	response.Success(c, cart)
}

// AddCartItem 添加商品到购物车（购物车不存在时自动创建，同商品合并数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	detail, err := h.CartService.AddItem(service.AddCartItemInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "add cart item failed")
		return
	}
	response.Success(c, detail)
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cartID, ok := parseUintParam(c, "cart_id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}
	if !h.ownsCart(c, uid, cartID) {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	detail, err := h.CartService.UpdateItemQuantity(cartID, itemID, *req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "update cart item failed")
		return
	}
	response.Success(c, detail)
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cartID, ok := parseUintParam(c, "cart_id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}
	if !h.ownsCart(c, uid, cartID) {
		return
	}
	detail, err := h.CartService.RemoveItem(cartID, itemID)
	if err != nil {
		respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "remove cart item failed")
		return
	}
	response.Success(c, detail)
}

// DeleteCart 删除购物车
func (h *Handler) DeleteCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cartID, ok := parseUintParam(c, "cart_id")
	if !ok {
		return
	}
	if !h.ownsCart(c, uid, cartID) {
		return
	}
	found, err := h.CartService.DeleteCart(cartID)
	if err != nil {
		respondError(c, response.CodeInternal, "delete cart failed", err)
		return
	}
	if !found {
		respondError(c, response.CodeNotFound, "cart not found", nil)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ownsCart 校验购物车归属，防止操作他人购物车
func (h *Handler) ownsCart(c *gin.Context, userID, cartID uint) bool {
	cart, err := h.CartRepo.GetByID(cartID)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch cart failed", err)
		return false
	}
	if cart == nil {
		respondError(c, response.CodeNotFound, "cart not found", nil)
		return false
	}
	if cart.UserID != userID && !isAdmin(c) {
		respondError(c, response.CodeForbidden, "not your cart", nil)
		return false
	}
	return true
}
