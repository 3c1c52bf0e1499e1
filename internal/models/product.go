package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                uint           `gorm:"primarykey" json:"id"`                              // 主键
	SellerID          uint           `gorm:"index;not null" json:"seller_id"`                   // 卖家用户ID
	Name              string         `gorm:"not null;index" json:"name"`                        // 商品名称
	Description       string         `gorm:"type:text" json:"description"`                      // 商品描述
	Price             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Brand             string         `gorm:"index" json:"brand"`                                // 品牌
	Sport             string         `gorm:"index" json:"sport"`                                // 运动类别
	Gender            string         `gorm:"type:varchar(20)" json:"gender"`                    // 适用性别（men/women/unisex）
	Size              string         `gorm:"type:varchar(20)" json:"size"`                      // 尺码
	YouthSize         bool           `gorm:"default:false" json:"youth_size"`                   // 是否青少年尺码
	Featured          bool           `gorm:"default:false;index" json:"featured"`               // 是否精选
	Condition         string         `gorm:"type:varchar(20);not null" json:"condition"`        // 成色
	Quantity          int            `gorm:"not null;default:0" json:"quantity"`                // 库存数量
	Image             []byte         `gorm:"type:blob" json:"image,omitempty"`                  // 商品图片（JSON 输出为 base64）
	YearProductMade   *int           `json:"year_product_made,omitempty"`                       // 生产年份
	AvgRating         float64        `gorm:"default:0" json:"avg_rating"`                       // 平均评分缓存（由评价模块维护）
	DateListed        time.Time      `gorm:"index" json:"date_listed"`                          // 上架时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	// 关联
	Seller  *User    `gorm:"foreignKey:SellerID" json:"seller,omitempty"`   // 卖家信息
	Reviews []Review `gorm:"foreignKey:ProductID" json:"reviews,omitempty"` // 评价列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
