package middleware

import (
	"time"

	"github.com/beego/beego/v2/server/web/context"
	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/logger"
)

const requestStartKey = "requestStart"

// RequestTimerFilter 记录请求开始时间
func RequestTimerFilter(ctx *context.Context) {
	ctx.Input.SetData(requestStartKey, time.Now())
}

// RequestLogFilter 请求完成后输出访问日志
func RequestLogFilter(ctx *context.Context) {
	start, ok := ctx.Input.GetData(requestStartKey).(time.Time)
	if !ok {
		return
	}
	logger.GetLogger().Info("Request completed",
		zap.String("method", ctx.Input.Method()),
		zap.String("path", ctx.Input.URL()),
		zap.Int("status", ctx.ResponseWriter.Status),
		zap.Duration("duration", time.Since(start)),
	)
}
