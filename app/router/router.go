package router

import (
	"github.com/beego/beego/v2/server/web"

	"github.com/beanhub/backend-go/app/controllers"
	"github.com/beanhub/backend-go/app/middleware"
)

// Init 注册全局过滤器与路由，须在配置加载后调用
func Init() {
	web.InsertFilter("/*", web.BeforeRouter, middleware.CORSMiddleware)
	web.InsertFilter("/*", web.BeforeRouter, middleware.RequestTimerFilter)
	web.InsertFilter("/*", web.FinishRouter, middleware.RequestLogFilter, web.WithReturnOnOutput(false))

	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")
	web.Router("/metrics", &controllers.MetricsController{}, "get:Metrics")

	questionController := &controllers.QuestionController{}
	web.Router("/api/ask", questionController, "post:Ask")
	web.Router("/api/ask/stream", questionController, "post:AskStream")
	web.Router("/api/ask/continue", questionController, "post:ContinueResearch")
	web.Router("/api/suggestions", questionController, "post:Suggestions")
}
