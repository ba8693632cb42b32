package models

import (
	"time"
)

// User 用户基础信息表
//
// Username 是客户端外部提供的用户标识，首次出现时自动建档。
// Credits 为当前积分，TotalSpent 为累计消费（只增不减，驱动档位划分）。
type User struct {
	BaseModel
	Username    string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Nickname    string     `gorm:"size:100" json:"nickname"`
	Role        string     `gorm:"size:20;default:'player'" json:"role"` // player, admin
	Status      string     `gorm:"size:20;default:'active'" json:"status"`
	Credits     int64      `gorm:"default:0" json:"credits"`
	TotalSpent  int64      `gorm:"default:0" json:"total_spent"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP string     `gorm:"size:50" json:"last_login_ip"`
}

// TableName 指定User表名
func (User) TableName() string {
	return "users"
}

// IsActive 检查用户是否激活
func (u *User) IsActive() bool {
	return u.Status == "active"
}

// IsAdmin 检查用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// UpdateLoginInfo 更新登录信息
func (u *User) UpdateLoginInfo(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
}
