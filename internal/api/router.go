package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewEngine returns a gin engine with health check, CORS for the given
// front-end origins, and the form routes under /api.
func NewEngine(h *Handler, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  corsOrigins,
			AllowHeaders:  []string{"Origin", "Content-Type", "X-Api-Key"},
			ExposeHeaders: []string{"Content-Length"},
			AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	RegisterRoutes(r.Group("/api"), h)
	return r
}
