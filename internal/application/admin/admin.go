// Package admin 管理员账号管理（用户列表、锁定、解锁）
package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
	"github.com/xiebiao/bookcrossing/pkg/logger"
)

// SessionRevoker 锁定账号时强制下线
type SessionRevoker interface {
	DeleteSession(ctx context.Context, userID uint) error
}

// UserItem 管理后台用户列表项
type UserItem struct {
	ID               uint   `json:"id"`
	Login            string `json:"login"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	City             string `json:"city"`
	Role             string `json:"role"`
	Enabled          bool   `json:"enabled"`
	AccountNonLocked bool   `json:"account_non_locked"`
	LoginDate        int64  `json:"login_date"`
}

// UsersPage 用户分页结果
type UsersPage struct {
	List       []UserItem `json:"list"`
	Total      int64      `json:"total"`
	PageNumber int        `json:"page_number"`
	PageSize   int        `json:"page_size"`
}

func toUserItem(u *user.User) UserItem {
	return UserItem{
		ID:               u.ID,
		Login:            u.Login,
		Name:             u.Name,
		Email:            u.Email,
		City:             u.City,
		Role:             string(u.Role),
		Enabled:          u.Enabled,
		AccountNonLocked: u.AccountNonLocked,
		LoginDate:        u.LoginDate,
	}
}

// ListUsersUseCase 按ID升序分页查询用户
type ListUsersUseCase struct {
	users user.Repository
}

// NewListUsersUseCase 创建用例
func NewListUsersUseCase(users user.Repository) *ListUsersUseCase {
	return &ListUsersUseCase{users: users}
}

// Execute 页码从0开始，页大小<=0时取20
func (uc *ListUsersUseCase) Execute(ctx context.Context, pageNumber, pageSize int) (*UsersPage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageNumber < 0 {
		pageNumber = 0
	}

	users, total, err := uc.users.List(ctx, pageNumber*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]UserItem, 0, len(users))
	for _, u := range users {
		list = append(list, toUserItem(u))
	}
	return &UsersPage{List: list, Total: total, PageNumber: pageNumber, PageSize: pageSize}, nil
}

// LockUserUseCase 锁定账号
// 被锁定用户的图书从公开目录消失，消息不再参与未读提醒，现有会话被删除
type LockUserUseCase struct {
	userService user.Service
	sessions    SessionRevoker
	tx          application.TxManager
}

// NewLockUserUseCase 创建用例
func NewLockUserUseCase(userService user.Service, sessions SessionRevoker, tx application.TxManager) *LockUserUseCase {
	return &LockUserUseCase{userService: userService, sessions: sessions, tx: tx}
}

func (uc *LockUserUseCase) Execute(ctx context.Context, login string) (*UserItem, error) {
	var u *user.User
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = uc.userService.Lock(ctx, login)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.DeleteSession(ctx, u.ID); err != nil {
		logger.FromContext(ctx).Warn("删除被锁定用户的会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}
	logger.FromContext(ctx).Info("账号已锁定", zap.String("login", login))

	item := toUserItem(u)
	return &item, nil
}

// UnlockUserUseCase 解除锁定
type UnlockUserUseCase struct {
	userService user.Service
	tx          application.TxManager
}

// NewUnlockUserUseCase 创建用例
func NewUnlockUserUseCase(userService user.Service, tx application.TxManager) *UnlockUserUseCase {
	return &UnlockUserUseCase{userService: userService, tx: tx}
}

func (uc *UnlockUserUseCase) Execute(ctx context.Context, login string) (*UserItem, error) {
	var u *user.User
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = uc.userService.Unlock(ctx, login)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("账号已解锁", zap.String("login", login))
	item := toUserItem(u)
	return &item, nil
}
