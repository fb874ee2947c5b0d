package model

import "time"

// 用户状态
const (
	UserStatusActive   = 1
	UserStatusDisabled = 0
)

// 系统角色
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// SysUser 系统用户 (发布者账号)
type SysUser struct {
	BaseModel
	Username string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // 哈希密码
	Email    string `gorm:"size:100;index"`

	// 系统级角色: admin (管理员), user (普通发布者)
	Role   string `gorm:"size:20;default:'user'"`
	Status int    `gorm:"default:1;comment:1启用 0禁用"`

	LastLoginAt *time.Time
}

func (SysUser) TableName() string {
	return "sys_users"
}
