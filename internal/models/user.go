package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`              // 主键
	Email         string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	PasswordHash  string         `gorm:"not null;default:''" json:"-"`      // 密码哈希（OAuth 用户为空）
	FirstName     string         `gorm:"default:''" json:"first_name"`      // 名
	LastName      string         `gorm:"default:''" json:"last_name"`       // 姓
	ProfilePicURL string         `gorm:"default:''" json:"profile_pic_url"` // 头像 URL
	IsAdmin       bool           `gorm:"default:false" json:"is_admin"`     // 管理员标记
	AuthProvider  string         `gorm:"default:'password'" json:"-"`       // 登录方式（password/google）
	LastLoginAt   *time.Time     `json:"last_login_at"`                     // 最后登录时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 返回展示用姓名
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	default:
		return u.FirstName + " " + u.LastName
	}
}
