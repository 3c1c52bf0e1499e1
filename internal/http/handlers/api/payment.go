package api

import (
	"github.com/gearup-shop/internal/http/response"
	"github.com/gearup-shop/internal/payment/stripe"

	"github.com/gin-gonic/gin"
)

// CreatePaymentIntentRequest 创建支付意向请求
type CreatePaymentIntentRequest struct {
	Amount   string `json:"amount" binding:"required"`
	OrderID  uint   `json:"order_id"`
	Currency string `json:"currency"`
}

// CreatePaymentIntent 创建 Stripe 支付意向并返回 client secret
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if !h.Config.Stripe.Enabled {
		respondError(c, response.CodeBadRequest, "payments disabled", nil)
		return
	}

	cfg := &stripe.Config{
		SecretKey:  h.Config.Stripe.SecretKey,
		Currency:   h.Config.Stripe.Currency,
		APIBaseURL: h.Config.Stripe.APIBase,
		TimeoutMS:  h.Config.Stripe.TimeoutMS,
	}
	result, err := stripe.CreatePaymentIntent(c.Request.Context(), cfg, stripe.CreateIntentInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		OrderID:  req.OrderID,
		UserID:   uid,
	})
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: stripe.ErrConfigInvalid, code: response.CodeBadRequest, msg: "invalid payment request"},
			{target: stripe.ErrRequestFailed, code: response.CodeInternal, msg: "payment gateway unreachable"},
			{target: stripe.ErrResponseInvalid, code: response.CodeInternal, msg: "payment gateway response invalid"},
		}, response.CodeInternal, "create payment intent failed")
		return
	}
	response.Success(c, gin.H{
		"intent_id":     result.IntentID,
		"client_secret": result.ClientSecret,
		"status":        result.Status,
	})
}
