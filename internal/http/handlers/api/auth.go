package api

import (
	"errors"

	"github.com/gearup-shop/internal/http/response"
	"github.com/gearup-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password" binding:"required"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ProfilePicURL string `json:"profile_pic_url"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest Google 登录请求
type GoogleLoginRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	result, err := h.AuthService.Register(service.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ProfilePicURL: req.ProfilePicURL,
	})
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid email or password"},
			{target: service.ErrEmailExists, code: response.CodeConflict, msg: "email already registered"},
		}, response.CodeInternal, "register failed")
		return
	}
	response.Success(c, result)
}

// Login 密码登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	result, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "invalid credentials", nil)
			return
		}
		respondError(c, response.CodeInternal, "login failed", err)
		return
	}
	response.Success(c, result)
}

// GoogleLogin Google 登录
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	result, err := h.AuthService.GoogleLogin(c.Request.Context(), req.AccessToken)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrOAuthDisabled, code: response.CodeBadRequest, msg: "google login disabled"},
			{target: service.ErrOAuthTokenInvalid, code: response.CodeUnauthorized, msg: "google token invalid"},
		}, response.CodeInternal, "google login failed")
		return
	}
	response.Success(c, result)
}

// Me 获取当前用户信息
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUserByID(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch user failed", err)
		return
	}
	response.Success(c, user)
}
