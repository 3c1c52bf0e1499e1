package service

import (
	"strings"
	"time"

	"github.com/gearup-shop/internal/constants"
	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/repository"

	"gorm.io/gorm"
)

// ReviewDetail 评价详情（附带评价人、商品与卖家信息）
type ReviewDetail struct {
	ID           uint      `json:"id"`
	ProductID    uint      `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ReviewerID   uint      `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	SellerID     uint      `json:"seller_id"`
	SellerName   string    `json:"seller_name"`
	Rating       int       `json:"rating"`
	Explanation  string    `json:"explanation"`
	ReviewDate   time.Time `json:"review_date"`
}

// AddReviewInput 添加评价输入
type AddReviewInput struct {
	ReviewerID  uint
	ProductID   uint
	Rating      int
	Explanation string
}

// ReviewService 评价服务，同时维护商品的平均评分缓存
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// AddReview 添加评价并在同一事务内重算商品平均评分
func (s *ReviewService) AddReview(input AddReviewInput) (*models.Review, error) {
	if input.ReviewerID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, ErrInvalidRating
	}
	reviewer, err := s.userRepo.GetByID(input.ReviewerID)
	if err != nil {
		return nil, err
	}
	if reviewer == nil {
		return nil, ErrUserNotFound
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	now := time.Now().UTC()
	review := &models.Review{
		ReviewerID:  input.ReviewerID,
		ProductID:   input.ProductID,
		Rating:      input.Rating,
		Explanation: strings.TrimSpace(input.Explanation),
		ReviewDate:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		if err := reviewRepo.Create(review); err != nil {
			return err
		}
		avg, err := reviewRepo.AverageRating(input.ProductID)
		if err != nil {
			return err
		}
		return productRepo.UpdateAvgRating(input.ProductID, avg)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProduct 获取商品全部评价，没有评价时返回空列表
func (s *ReviewService) ListByProduct(productID uint) ([]ReviewDetail, error) {
	if productID == 0 {
		return nil, ErrInvalidInput
	}
	reviews, err := s.reviewRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	details := make([]ReviewDetail, 0, len(reviews))
	for _, review := range reviews {
		detail := ReviewDetail{
			ID:          review.ID,
			ProductID:   review.ProductID,
			ReviewerID:  review.ReviewerID,
			Rating:      review.Rating,
			Explanation: review.Explanation,
			ReviewDate:  review.ReviewDate,
		}
		if review.Reviewer != nil {
			detail.ReviewerName = review.Reviewer.FullName()
		}
		if review.Product != nil {
			detail.ProductName = review.Product.Name
			detail.SellerID = review.Product.SellerID
			if review.Product.Seller != nil {
				detail.SellerName = review.Product.Seller.FullName()
			}
		}
		details = append(details, detail)
	}
	return details, nil
}

// DeleteReview 删除评价并重算商品平均评分，返回是否存在
func (s *ReviewService) DeleteReview(reviewID uint) (bool, error) {
	if reviewID == 0 {
		return false, ErrInvalidInput
	}
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return false, err
	}
	if review == nil {
		return false, nil
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		affected, err := reviewRepo.Delete(reviewID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrReviewNotFound
		}
		avg, err := reviewRepo.AverageRating(review.ProductID)
		if err != nil {
			return err
		}
		return productRepo.UpdateAvgRating(review.ProductID, avg)
	})
	if err != nil {
		if err == ErrReviewNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
