package user

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User 用户实体（聚合根）
// 说明：
// 1. 图书、消息只通过ID引用用户，不持有User对象
// 2. 领域实体不依赖GORM tag，映射由Repository实现处理
type User struct {
	ID               uint
	Login            string
	Name             string
	Email            string
	City             string
	AboutMe          string
	Password         string // bcrypt哈希值
	Role             Role
	Enabled          bool  // 邮箱已激活
	AccountNonLocked bool  // 未被管理员锁定
	LoginDate        int64 // 最近登录时间(unix秒)，0表示从未登录
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUser 创建新用户（工厂方法）
// 新用户未激活，需通过邮件确认后才能登录
func NewUser(login, name, email, hashedPassword, city string) *User {
	now := time.Now()
	return &User{
		Login:            login,
		Name:             name,
		Email:            email,
		City:             city,
		Password:         hashedPassword,
		Role:             RoleUser,
		Enabled:          false,
		AccountNonLocked: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsActive 账号可用：已激活且未锁定
// 不可用账号的图书不出现在公开列表中，消息不参与未读提醒
func (u *User) IsActive() bool {
	return u.Enabled && u.AccountNonLocked
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Enable 激活账号
func (u *User) Enable() {
	u.Enabled = true
	u.UpdatedAt = time.Now()
}

// Lock 锁定账号
func (u *User) Lock() {
	u.AccountNonLocked = false
	u.UpdatedAt = time.Now()
}

// Unlock 解除锁定
func (u *User) Unlock() {
	u.AccountNonLocked = true
	u.UpdatedAt = time.Now()
}

// TouchLogin 记录登录时间
func (u *User) TouchLogin(now time.Time) {
	u.LoginDate = now.Unix()
	u.UpdatedAt = now
}
