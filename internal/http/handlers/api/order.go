package api

import (
	"github.com/gearup-shop/internal/http/response"
	"github.com/gearup-shop/internal/service"

	"github.com/gin-gonic/gin"
)

var orderCheckoutErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid checkout input"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "insufficient stock"},
}

// Checkout 结账：把当前用户购物车转为订单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.CreateOrder(uid)
	if err != nil {
		respondWithMappedError(c, err, orderCheckoutErrorRules, response.CodeInternal, "checkout failed")
		return
	}
	response.Success(c, order)
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orders, err := h.OrderService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch orders failed", err)
		return
	}
	response.Success(c, gin.H{"orders": orders})
}
