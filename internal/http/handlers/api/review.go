package api

import (
	"github.com/gearup-shop/internal/http/response"
	"github.com/gearup-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 添加评价请求
type CreateReviewRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required"`
	Explanation string `json:"explanation"`
}

// CreateReview 添加评价
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	review, err := h.ReviewService.AddReview(service.AddReviewInput{
		ReviewerID:  uid,
		ProductID:   req.ProductID,
		Rating:      req.Rating,
		Explanation: req.Explanation,
	})
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid review input"},
			{target: service.ErrInvalidRating, code: response.CodeBadRequest, msg: "rating must be between 1 and 5"},
			{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
			{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
		}, response.CodeInternal, "create review failed")
		return
	}
	response.Success(c, review)
}

// ListProductReviews 商品评价列表
func (h *Handler) ListProductReviews(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.ReviewService.ListByProduct(productID)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch reviews failed", err)
		return
	}
	response.Success(c, gin.H{"reviews": reviews})
}

// DeleteReview 删除评价（仅评价人本人或管理员）
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	review, err := h.ReviewRepo.GetByID(reviewID)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch review failed", err)
		return
	}
	if review == nil {
		respondError(c, response.CodeNotFound, "review not found", nil)
		return
	}
	if review.ReviewerID != uid && !isAdmin(c) {
		respondError(c, response.CodeForbidden, "not your review", nil)
		return
	}

	found, err := h.ReviewService.DeleteReview(reviewID)
	if err != nil {
		respondError(c, response.CodeInternal, "delete review failed", err)
		return
	}
	if !found {
		respondError(c, response.CodeNotFound, "review not found", nil)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
