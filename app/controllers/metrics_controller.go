package controllers

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsController Prometheus指标导出
type MetricsController struct {
	BaseController
}

func (c *MetricsController) Metrics() {
	promhttp.Handler().ServeHTTP(c.Ctx.ResponseWriter, c.Ctx.Request)
}
