package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gearup-shop/internal/cache"
	"github.com/gearup-shop/internal/http/response"
	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/repository"
	"github.com/gearup-shop/internal/service"

	"github.com/gin-gonic/gin"
)

const productCacheTTL = 5 * time.Minute

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name            string       `json:"name" binding:"required"`
	Description     string       `json:"description"`
	Price           models.Money `json:"price"`
	Brand           string       `json:"brand"`
	Sport           string       `json:"sport"`
	Gender          string       `json:"gender"`
	Size            string       `json:"size"`
	YouthSize       bool         `json:"youth_size"`
	Featured        bool         `json:"featured"`
	Condition       string       `json:"condition" binding:"required"`
	Quantity        int          `json:"quantity"`
	Image           []byte       `json:"image"`
	YearProductMade *int         `json:"year_product_made"`
}

// UpdateProductRequest 更新商品请求（缺省字段不修改）
type UpdateProductRequest struct {
	Name            *string       `json:"name"`
	Description     *string       `json:"description"`
	Price           *models.Money `json:"price"`
	Brand           *string       `json:"brand"`
	Sport           *string       `json:"sport"`
	Gender          *string       `json:"gender"`
	Size            *string       `json:"size"`
	YouthSize       *bool         `json:"youth_size"`
	Featured        *bool         `json:"featured"`
	Condition       *string       `json:"condition"`
	Quantity        *int          `json:"quantity"`
	Image           []byte        `json:"image"`
	YearProductMade *int          `json:"year_product_made"`
}

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Sport:    c.Query("sport"),
		Brand:    c.Query("brand"),
		Gender:   c.Query("gender"),
		Search:   c.Query("search"),
	}
	if sellerID, err := strconv.ParseUint(c.Query("seller_id"), 10, 64); err == nil && sellerID > 0 {
		filter.SellerID = uint(sellerID)
	}
	if raw := strings.TrimSpace(c.Query("featured")); raw != "" {
		featured := raw == "true" || raw == "1"
		filter.Featured = &featured
	}
	if raw := strings.TrimSpace(c.Query("youth_size")); raw != "" {
		youth := raw == "true" || raw == "1"
		filter.YouthSize = &youth
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch products failed", err)
		return
	}

	totalPage := int64(0)
	if filter.PageSize > 0 {
		totalPage = (total + int64(filter.PageSize) - 1) / int64(filter.PageSize)
	}
	response.SuccessWithPage(c, products, response.Pagination{
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var cached models.Product
	if hit, err := cache.GetJSON(c.Request.Context(), productCacheKey(id), &cached); err == nil && hit {
		response.Success(c, &cached)
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch product failed", err)
		return
	}
	_ = cache.SetJSON(c.Request.Context(), productCacheKey(id), product, productCacheTTL)
	response.Success(c, product)
}

// CreateProduct 创建商品（卖家为当前用户）
func (h *Handler) CreateProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Create(service.CreateProductInput{
		SellerID:        uid,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Brand:           req.Brand,
		Sport:           req.Sport,
		Gender:          req.Gender,
		Size:            req.Size,
		YouthSize:       req.YouthSize,
		Featured:        req.Featured,
		Condition:       req.Condition,
		Quantity:        req.Quantity,
		Image:           req.Image,
		YearProductMade: req.YearProductMade,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid product fields", nil)
			return
		}
		respondError(c, response.CodeInternal, "create product failed", err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品（仅卖家本人或管理员）
func (h *Handler) UpdateProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	existing, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch product failed", err)
		return
	}
	if existing.SellerID != uid && !isAdmin(c) {
		respondError(c, response.CodeForbidden, "not the seller", nil)
		return
	}

	product, err := h.ProductService.Update(id, service.UpdateProductInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Brand:           req.Brand,
		Sport:           req.Sport,
		Gender:          req.Gender,
		Size:            req.Size,
		YouthSize:       req.YouthSize,
		Featured:        req.Featured,
		Condition:       req.Condition,
		Quantity:        req.Quantity,
		Image:           req.Image,
		YearProductMade: req.YearProductMade,
	})
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
			{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid product fields"},
		}, response.CodeInternal, "update product failed")
		return
	}
	_ = cache.Del(c.Request.Context(), productCacheKey(id))
	response.Success(c, product)
}

// DeleteProduct 删除商品（缺失时返回提示消息而不是错误）
func (h *Handler) DeleteProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	existing, err := h.ProductService.GetByID(id)
	if err != nil && !errors.Is(err, service.ErrProductNotFound) {
		respondError(c, response.CodeInternal, "fetch product failed", err)
		return
	}
	if existing != nil && existing.SellerID != uid && !isAdmin(c) {
		respondError(c, response.CodeForbidden, "not the seller", nil)
		return
	}

	found, err := h.ProductService.Delete(id)
	if err != nil {
		respondError(c, response.CodeInternal, "delete product failed", err)
		return
	}
	_ = cache.Del(c.Request.Context(), productCacheKey(id))
	if !found {
		response.SuccessWithMsg(c, "product does not exist", gin.H{"deleted": false})
		return
	}
	response.SuccessWithMsg(c, "product deleted", gin.H{"deleted": true})
}
