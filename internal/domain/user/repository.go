package user

import (
	"context"
)

// Repository 用户仓储接口
// 接口定义在domain层，实现在infrastructure/persistence/mysql
type Repository interface {
	// Create 创建用户
	// 登录名或邮箱重复时返回ErrLoginDuplicate / ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByIDs 批量查找用户，不存在的ID被忽略
	FindByIDs(ctx context.Context, ids []uint) ([]*User, error)

	// FindByLogin 根据登录名查找用户，不存在返回ErrUserNotFound
	FindByLogin(ctx context.Context, login string) (*User, error)

	// FindByEmail 根据邮箱查找用户，不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error

	// List 按ID升序分页查询用户（管理后台）
	List(ctx context.Context, offset, limit int) ([]*User, int64, error)
}
