// Package router 组装Gin引擎：全局中间件、健康检查、文档、指标与业务路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookcrossing/docs" // Swagger文档注册
	"github.com/xiebiao/bookcrossing/internal/infrastructure/config"
	"github.com/xiebiao/bookcrossing/internal/interface/http/dto"
	"github.com/xiebiao/bookcrossing/internal/interface/http/handler"
	"github.com/xiebiao/bookcrossing/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/response"
)

// Handlers 业务处理器集合
type Handlers struct {
	User  *handler.UserHandler
	Book  *handler.BookHandler
	Admin *handler.AdminHandler
	Chat  *handler.ChatHandler
}

// New 创建并配置Gin引擎
// 中间件顺序：Logger → Recovery → Metrics → 路由匹配 → Auth → Handler
func New(cfg *config.Config, log *zap.Logger, auth *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	dto.RegisterValidators()

	r := gin.New()
	r.Use(middleware.Logger(log))
	r.Use(gin.Recovery())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 访问 /swagger/index.html 查看API文档，release模式不暴露
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	register(v1, auth, h)
	return r
}

func register(v1 *gin.RouterGroup, auth *middleware.AuthMiddleware, h Handlers) {
	// 用户模块（公开接口）
	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.GET("/confirm", h.User.Confirm)
		users.POST("/login", h.User.Login)
		users.POST("/refresh", h.User.Refresh)
	}

	// 图书目录（公开接口）
	books := v1.Group("/books")
	{
		books.GET("/all", h.Book.All)
		books.GET("/by-user", h.Book.ByUser)
		books.GET("/info", h.Book.Info)
		books.GET("/search", h.Book.Search)
		books.POST("/search-with-filters", h.Book.SearchWithFilters)
		books.GET("/owner", h.Book.Owner)
		books.GET("/genres", h.Book.Genres)
	}

	// 当前用户（需要登录）
	me := v1.Group("/user")
	me.Use(auth.RequireAuth())
	{
		me.GET("/profile", h.User.Profile)
		me.POST("/logout", h.User.Logout)

		me.GET("/books", h.Book.MyBooks)
		me.POST("/books", h.Book.Publish)
		me.PUT("/books", h.Book.Change)
		me.DELETE("/books", h.Book.Delete)

		me.POST("/chats", h.Chat.Create)
		me.DELETE("/chats", h.Chat.Delete)
	}

	// 管理后台（需要管理员角色）
	admin := v1.Group("/admin")
	admin.Use(auth.RequireAuth(), auth.RequireAdmin())
	{
		admin.GET("/users", h.Admin.Users)
		admin.PUT("/users/lock", h.Admin.Lock)
		admin.PUT("/users/unlock", h.Admin.Unlock)
	}
}
