package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcrossing/internal/domain/user"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/jwt"
	"github.com/xiebiao/bookcrossing/pkg/response"
)

// Context中的用户信息Key
const (
	ctxUserID = "user_id"
	ctxLogin  = "login"
	ctxRole   = "role"
	ctxToken  = "access_token"
)

// TokenParser 解析并校验JWT（jwt.Manager）
type TokenParser interface {
	ParseToken(tokenString string) (*jwt.Claims, error)
}

// TokenBlacklist 已登出Token（redis.SessionStore）
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token有效性（只接受Access Token）
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	parser    TokenParser
	blacklist TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(parser TokenParser, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		parser:    parser,
		blacklist: blacklist,
	}
}

// RequireAuth 要求登录
//
//	authorized := r.Group("/api/v1/user")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeUnauthorized, "请先登录")
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}

		isBlacklisted, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		claims, err := m.parser.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // ErrTokenExpired / ErrInvalidToken
			c.Abort()
			return
		}
		// Refresh Token不带登录名，不能用于访问接口
		if claims.Login == "" {
			response.Error(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Set(ctxToken, tokenString)
		c.Next()
	}
}

// OptionalAuth 可选登录
// 有合法Token时注入用户信息，否则作为匿名用户继续
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			claims, err := m.parser.ParseToken(tokenString)
			if err == nil && claims.Login != "" {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireAdmin 要求管理员角色，需放在RequireAuth之后
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != string(user.RoleAdmin) {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxLogin, claims.Login)
	c.Set(ctxRole, claims.Role)
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ctxUserID); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetLogin 当前登录用户的登录名
func GetLogin(c *gin.Context) string {
	return c.GetString(ctxLogin)
}

// GetRole 当前登录用户的角色
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// GetAccessToken 当前请求携带的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// MustGetUserID 从Context获取用户ID（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}

// MustGetLogin 同MustGetUserID
func MustGetLogin(c *gin.Context) string {
	login := GetLogin(c)
	if login == "" {
		panic("login not found in context")
	}
	return login
}
