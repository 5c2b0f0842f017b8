package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chatlab/chatlab-server/internal/config"
	"github.com/chatlab/chatlab-server/internal/infrastructure"
	middleware "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/middlewares"
	v1 "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine  *gin.Engine
	infra   *infrastructure.Infrastructure
	v1Route *v1.V1Route
	config  *config.Config
}

func NewHTTPServer(
	v1Route *v1.V1Route,
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		gin.New(),
		infra,
		v1Route,
		cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(infra.Logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Ready only when the JWKS has been fetched, otherwise every
	// authenticated request would fail.
	server.engine.GET("/readyz", func(c *gin.Context) {
		if server.infra.TokenValidator != nil && !server.infra.TokenValidator.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &server
}

func (httpServer *HTTPServer) Run() error {
	// Authenticated routes
	protected := httpServer.engine.Group("/")
	protected.Use(middleware.AuthMiddleware(httpServer.infra.TokenValidator, httpServer.infra.Logger))

	// Routes that accept anonymous callers but honor credentials when present
	public := httpServer.engine.Group("/")
	public.Use(middleware.OptionalAuthMiddleware(httpServer.infra.TokenValidator, httpServer.infra.Logger))

	httpServer.v1Route.RegisterRouter(protected)
	httpServer.v1Route.RegisterPublicRouter(public)

	if err := httpServer.engine.Run(fmt.Sprintf(":%d", httpServer.config.HTTPPort)); err != nil {
		return err
	}
	return nil
}
