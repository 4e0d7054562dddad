package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcrossing/internal/infrastructure/config"
	"github.com/xiebiao/bookcrossing/internal/interface/http/handler"
	"github.com/xiebiao/bookcrossing/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/jwt"
)

type stubParser map[string]*jwt.Claims

func (p stubParser) ParseToken(token string) (*jwt.Claims, error) {
	if claims, ok := p[token]; ok {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

type emptyBlacklist struct{}

func (emptyBlacklist) IsInBlacklist(context.Context, string) (bool, error) { return false, nil }

func newEngine(mode string) *gin.Engine {
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: mode},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	auth := middleware.NewAuthMiddleware(stubParser{
		"user-token": {UserID: 1, Login: "alice", Role: "user"},
	}, emptyBlacklist{})

	return New(cfg, zap.NewNop(), auth, Handlers{
		User:  &handler.UserHandler{},
		Book:  &handler.BookHandler{},
		Admin: &handler.AdminHandler{},
		Chat:  &handler.ChatHandler{},
	})
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	r := newEngine(gin.TestMode)

	t.Run("健康检查", func(t *testing.T) {
		w := get(r, "/ping", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pong")
	})

	t.Run("指标端点", func(t *testing.T) {
		w := get(r, "/metrics", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "http_requests_total")
	})

	t.Run("接口文档", func(t *testing.T) {
		w := get(r, "/swagger/doc.json", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/api/v1/books/search-with-filters")
	})

	t.Run("我的图书需要登录", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/user/books", "").Code)
	})

	t.Run("管理接口需要管理员", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get(r, "/api/v1/admin/users", "user-token").Code)
	})

	t.Run("未知路由", func(t *testing.T) {
		w := get(r, "/api/v1/unknown", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40400`)
	})
}

func TestRouter_ReleaseHidesSwagger(t *testing.T) {
	r := newEngine(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	assert.Equal(t, http.StatusNotFound, get(r, "/swagger/doc.json", "").Code)
}
