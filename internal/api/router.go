package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepscope/internal/observability"
)

// NewRouter wires every route. metrics may be nil.
func NewRouter(app App, metrics *observability.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), gin.CustomRecovery(Recover(app)))
	if metrics != nil {
		r.Use(metrics.Middleware())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	r.SetHTMLTemplate(pageTemplate())

	r.GET("/healthz", GetHealth())
	r.POST("/api/timeline", PostTimeline(app))
	r.POST("/api/analysis", PostAnalysis(app))

	visitor := r.Group("/", SessionMiddleware(app))
	visitor.GET("/", GetPage(app))
	visitor.POST("/analyze", PostAnalyze(app))
	visitor.GET("/api/session", GetSessionState(app))
	visitor.POST("/api/session/submit", PostSessionSubmit(app))

	r.NoRoute(NoRoute(app))

	return r
}
