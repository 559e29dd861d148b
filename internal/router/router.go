package router

import (
	"net/http"

	"phonics-audio/internal/handler"

	"github.com/gin-gonic/gin"
)

func SetupRouter(r *gin.Engine, hdl handler.Handler) {
	r.GET("/healthz", hdl.Healthz)

	api := r.Group("/api")
	{
		api.GET("/assets", hdl.ListAssets)
		api.GET("/runs", hdl.ListRuns)
		api.GET("/runs/:runId", hdl.GetRun)
	}

	r.GET("/sounds/*filepath", hdl.ServeSound)
	r.HEAD("/sounds/*filepath", hdl.ServeSound)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/api/runs")
	})
}

// New builds the engine used by the serve command.
func New(hdl handler.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	SetupRouter(r, hdl)
	return r
}
