package models

import "time"

// Cart 购物车表（每个用户至多一个，硬删除以保持 user_id 唯一索引可复用）
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`                 // 用户ID
	Subtotal  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"` // 小计（恒等于各项 数量×单价 之和）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                             // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
