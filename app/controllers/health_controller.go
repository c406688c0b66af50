package controllers

import (
	"net/http"

	"github.com/beanhub/backend-go/internal/database"
	"github.com/beanhub/backend-go/internal/di"
	"github.com/beanhub/backend-go/internal/vector"
)

// RootController 服务首页
type RootController struct {
	BaseController
}

func (c *RootController) Index() {
	c.JSONSuccess(map[string]interface{}{
		"service": "beanhub-backend",
		"status":  "running",
	})
}

// HealthController 健康检查
type HealthController struct {
	BaseController
}

// Health 汇总各依赖组件的可用性
func (c *HealthController) Health() {
	components := map[string]string{
		"database": "ok",
		"redis":    "ok",
		"milvus":   "ok",
	}
	healthy := true

	if database.DB == nil {
		components["database"] = "unavailable"
		healthy = false
	} else if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
		components["database"] = "unavailable"
		healthy = false
	}

	if database.RedisClient == nil {
		components["redis"] = "unavailable"
		healthy = false
	} else if err := database.RedisClient.Ping(c.Ctx.Request.Context()).Err(); err != nil {
		components["redis"] = "unavailable"
		healthy = false
	}

	var store *vector.Store
	if err := di.Invoke(func(s *vector.Store) { store = s }); err != nil || !store.Ready() {
		components["milvus"] = "unavailable"
		healthy = false
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, map[string]interface{}{
		"status":     overall,
		"components": components,
	})
}
