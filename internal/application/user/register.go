package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

// ConfirmTokenTTL 激活链接有效期
const ConfirmTokenTTL = 24 * time.Hour

// ConfirmTokenStore 激活Token存储（redis.ConfirmStore）
type ConfirmTokenStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Consume(ctx context.Context, token string) (userID uint, ok bool, err error)
}

// ConfirmationMailer 激活邮件
type ConfirmationMailer interface {
	SendConfirmation(ctx context.Context, recipient *user.User, token string) error
}

// RegisterUseCase 用户注册用例
// 1. 创建未激活的用户（登录名、邮箱重复时失败）
// 2. 生成一次性激活Token存入Redis
// 3. 发送激活邮件；发送失败时整个注册回滚
type RegisterUseCase struct {
	userService user.Service
	tokens      ConfirmTokenStore
	mailer      ConfirmationMailer
	tx          application.TxManager
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(
	userService user.Service,
	tokens ConfirmTokenStore,
	mailer ConfirmationMailer,
	tx application.TxManager,
) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		tokens:      tokens,
		mailer:      mailer,
		tx:          tx,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	var info UserInfo
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		u, err := uc.userService.Register(ctx, user.RegisterParams{
			Login:    req.Login,
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			City:     req.City,
		})
		if err != nil {
			return err
		}

		token := uuid.NewString()
		if err := uc.tokens.Save(ctx, token, u.ID, ConfirmTokenTTL); err != nil {
			return err
		}
		if err := uc.mailer.SendConfirmation(ctx, u, token); err != nil {
			return err
		}

		info = toUserInfo(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ConfirmUseCase 邮箱确认（激活账号）
type ConfirmUseCase struct {
	userService user.Service
	tokens      ConfirmTokenStore
	tx          application.TxManager
}

// NewConfirmUseCase 创建激活用例
func NewConfirmUseCase(userService user.Service, tokens ConfirmTokenStore, tx application.TxManager) *ConfirmUseCase {
	return &ConfirmUseCase{userService: userService, tokens: tokens, tx: tx}
}

// Execute Token不存在、已过期或已使用返回ErrInvalidConfirmToken
func (uc *ConfirmUseCase) Execute(ctx context.Context, token string) (*UserInfo, error) {
	userID, ok, err := uc.tokens.Consume(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, user.ErrInvalidConfirmToken
	}

	var info UserInfo
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		u, err := uc.userService.Enable(ctx, userID)
		if err != nil {
			return err
		}
		info = toUserInfo(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// =========================================
// 应用层DTO
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Login    string
	Name     string
	Email    string
	Password string
	City     string
}

// UserInfo 用户信息（不含密码）
type UserInfo struct {
	ID      uint   `json:"id"`
	Login   string `json:"login"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	City    string `json:"city"`
	AboutMe string `json:"about_me"`
	Role    string `json:"role"`
	Enabled bool   `json:"enabled"`
}

func toUserInfo(u *user.User) UserInfo {
	return UserInfo{
		ID:      u.ID,
		Login:   u.Login,
		Name:    u.Name,
		Email:   u.Email,
		City:    u.City,
		AboutMe: u.AboutMe,
		Role:    string(u.Role),
		Enabled: u.Enabled,
	}
}
