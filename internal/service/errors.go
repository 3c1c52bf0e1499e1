package service

import "errors"

// 业务语义错误（由 handler 统一映射为响应码）
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProductNotFound    = errors.New("product not found")
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartExists         = errors.New("cart already exists")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrReviewNotFound     = errors.New("review not found")
	ErrInvalidRating      = errors.New("rating out of range")
	ErrOAuthDisabled      = errors.New("google login disabled")
	ErrOAuthTokenInvalid  = errors.New("google token invalid")
)
