package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/jwt"
	"github.com/xiebiao/bookcrossing/pkg/logger"
	"github.com/xiebiao/bookcrossing/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubParser map[string]*jwt.Claims

func (p stubParser) ParseToken(token string) (*jwt.Claims, error) {
	if claims, ok := p[token]; ok {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

type stubBlacklist struct {
	tokens map[string]bool
	err    error
}

func (b stubBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return b.tokens[token], b.err
}

func newAuth(blacklist stubBlacklist) *AuthMiddleware {
	return NewAuthMiddleware(stubParser{
		"user-token":    {UserID: 1, Login: "alice", Role: "user"},
		"admin-token":   {UserID: 2, Login: "root", Role: "admin"},
		"refresh-token": {UserID: 1},
	}, blacklist)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	auth := newAuth(stubBlacklist{tokens: map[string]bool{"revoked": true}})

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": MustGetUserID(c),
			"login":   MustGetLogin(c),
			"token":   GetAccessToken(c),
		})
	})

	t.Run("合法Token", func(t *testing.T) {
		w := serve(r, withToken("user-token"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":1,"login":"alice","token":"user-token"}`, w.Body.String())
	})

	t.Run("缺少Token", func(t *testing.T) {
		w := serve(r, withToken(""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40100`)
	})

	t.Run("格式错误", func(t *testing.T) {
		req := withToken("")
		req.Header.Set("Authorization", "Token user-token")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40101`)
	})

	t.Run("已登出", func(t *testing.T) {
		w := serve(r, withToken("revoked"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40102`)
	})

	t.Run("Refresh Token不能访问接口", func(t *testing.T) {
		w := serve(r, withToken("refresh-token"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40101`)
	})

	t.Run("无效Token", func(t *testing.T) {
		w := serve(r, withToken("forged"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAuth_BlacklistError(t *testing.T) {
	auth := newAuth(stubBlacklist{err: apperrors.WrapCode(errors.New("conn refused"), apperrors.ErrCodeRedisError, "查询黑名单失败")})

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, withToken("user-token"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":50002`)
}

func TestRequireAdmin(t *testing.T) {
	auth := newAuth(stubBlacklist{})

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), auth.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusForbidden, serve(r, withToken("user-token")).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, withToken("admin-token")).Code)
}

func TestOptionalAuth(t *testing.T) {
	auth := newAuth(stubBlacklist{})

	r := gin.New()
	r.GET("/me", auth.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})

	assert.JSONEq(t, `{"user_id":0}`, serve(r, withToken("")).Body.String())
	assert.JSONEq(t, `{"user_id":1}`, serve(r, withToken("user-token")).Body.String())
	assert.JSONEq(t, `{"user_id":0}`, serve(r, withToken("refresh-token")).Body.String())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	var fromCtx *zap.Logger
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/books", func(c *gin.Context) {
		fromCtx = logger.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("生成请求ID", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/books", nil))
		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
		require.NotNil(t, fromCtx)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, w.Header().Get(HeaderRequestID), fields["request_id"])
		assert.Equal(t, "/books", fields["path"])
		assert.EqualValues(t, http.StatusOK, fields["status"])
	})

	t.Run("沿用上游请求ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set(HeaderRequestID, "upstream-id")
		w := serve(r, req)
		assert.Equal(t, "upstream-id", w.Header().Get(HeaderRequestID))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "upstream-id", entries[0].ContextMap()["request_id"])
	})
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	labels := []string{http.MethodGet, "/books/:id", "200"}
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(labels...))

	serve(r, httptest.NewRequest(http.MethodGet, "/books/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/books/2", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(labels...)))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.HTTPRequestsInProgress))
}
