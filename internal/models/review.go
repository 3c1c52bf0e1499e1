package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 商品评价表
type Review struct {
	ID          uint           `gorm:"primarykey" json:"id"`             // 主键
	ReviewerID  uint           `gorm:"index;not null" json:"reviewer_id"` // 评价人用户ID
	ProductID   uint           `gorm:"index;not null" json:"product_id"`  // 商品ID
	Rating      int            `gorm:"not null" json:"rating"`            // 评分（1-5）
	Explanation string         `gorm:"type:text" json:"explanation"`      // 评价内容
	ReviewDate  time.Time      `gorm:"index;not null" json:"review_date"` // 评价时间（UTC）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间

	Reviewer *User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"` // 评价人
	Product  *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`   // 商品
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
