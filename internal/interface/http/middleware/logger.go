package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcrossing/pkg/logger"
	"github.com/xiebiao/bookcrossing/pkg/tracing"
)

// HeaderRequestID 请求ID头，上游已带则沿用
const HeaderRequestID = "X-Request-ID"

// slowRequest 超过该耗时记为慢请求
const slowRequest = 3 * time.Second

// Logger 请求日志中间件
// 1. 生成请求ID并写回响应头
// 2. 带请求ID的logger放入请求context，后续层通过logger.FromContext取用
// 3. 每个请求结束后输出一行结构化日志，慢请求用Warn级别
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		fields := []zap.Field{zap.String("request_id", requestID)}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		reqLog := log.With(fields...)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), reqLog))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		entry := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			entry = append(entry, zap.String("errors", c.Errors.String()))
		}

		if latency > slowRequest {
			reqLog.Warn("慢请求", entry...)
			return
		}
		reqLog.Info("request", entry...)
	}
}
