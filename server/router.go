package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ratoneando/logger"
	"ratoneando/metrics"
)

// NewRouter wires middleware, the search routes and /metrics.
func NewRouter(h *Handler, log zerolog.Logger, origins []string) *gin.Engine {
	router := gin.New()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(
		gin.Recovery(),
		logger.GinMiddleware(log),
		metrics.GinMiddleware(),
		cors.New(corsConfig(origins)),
	)

	h.RegisterRoutes(&router.RouterGroup)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
