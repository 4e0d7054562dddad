package user

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/jwt"
	"github.com/xiebiao/bookcrossing/pkg/logger"
)

// SessionStore 登录会话与Token黑名单（redis.SessionStore）
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 1. 按登录名或邮箱验证密码，检查账号已激活且未锁定
// 2. 记录登录时间
// 3. 生成JWT Token对并保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	tx           application.TxManager
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	tx application.TxManager,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		tx:           tx,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var u *user.User
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = uc.userService.Login(ctx, req.Login, req.Password)
		return err
	})
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Login, string(u.Role))
	if err != nil {
		return nil, err
	}

	sessionData := map[string]interface{}{
		"user_id":  strconv.FormatUint(uint64(u.ID), 10),
		"login":    u.Login,
		"role":     string(u.Role),
		"login_at": u.LoginDate,
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.jwtManager.RefreshTokenExpire()); err != nil {
		// 会话只用于统计与强制下线，保存失败不影响登录
		logger.FromContext(ctx).Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &LoginResponse{
		User:         toUserInfo(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
	jwtManager   *jwt.Manager
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, jwtManager: jwtManager}
}

// Execute 删除会话，Access Token加入黑名单直到自然过期
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.jwtManager.AccessTokenExpire())
}

// RefreshTokenUseCase 使用Refresh Token换取新的Access Token
// 账号被锁定后不能再刷新
type RefreshTokenUseCase struct {
	users      user.Repository
	jwtManager *jwt.Manager
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(users user.Repository, jwtManager *jwt.Manager) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{users: users, jwtManager: jwtManager}
}

// Execute 执行刷新
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	// Refresh Token不带登录名，带登录名的是Access Token
	if claims.Login != "" {
		return nil, apperrors.ErrInvalidToken
	}

	u, err := uc.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !u.Enabled {
		return nil, user.ErrUserNotEnabled
	}
	if !u.AccountNonLocked {
		return nil, user.ErrUserLocked
	}

	accessToken, err := uc.jwtManager.RefreshAccessToken(refreshToken, u.Login, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenExpire().Seconds()),
	}, nil
}

// ProfileUseCase 当前用户资料
type ProfileUseCase struct {
	users user.Repository
}

// NewProfileUseCase 创建用例
func NewProfileUseCase(users user.Repository) *ProfileUseCase {
	return &ProfileUseCase{users: users}
}

func (uc *ProfileUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求，Login可以是登录名或邮箱
type LoginRequest struct {
	Login    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}

// RefreshResponse 刷新响应
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
