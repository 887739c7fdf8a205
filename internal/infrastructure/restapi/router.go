package restapi

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"bridge_router/internal/infrastructure/configloader"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter builds the gin engine with middleware, the API group, /metrics and optional static files.
func SetupRouter(handler *QuoteHandler, cfg *configloader.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ZapLoggerMiddleware(logger.Named("http")))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins)...)

	limiter := NewRateLimiter(
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.Burst,
		time.Duration(cfg.RateLimit.IdleTTLMinutes)*time.Minute,
	)

	api := router.Group("/api", BodyLimitMiddleware(cfg.Server.MaxBodyBytes))
	{
		api.GET("/health", handler.Health)
		api.GET("/tokens", handler.ListTokens)
		api.GET("/quote", limiter.Middleware(), handler.GetQuote)
		api.POST("/swap", limiter.Middleware(), handler.Swap)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Server.StaticDir != "" {
		router.NoRoute(staticFallback(cfg.Server.StaticDir))
		logger.Info("Serving static files", zap.String("dir", cfg.Server.StaticDir))
	} else {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, errorResponse{Success: false, Error: "Not found"})
		})
	}

	return router
}

// staticFallback serves files from dir and falls back to index.html for client-side routes.
// Unknown /api paths stay 404.
func staticFallback(dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if strings.HasPrefix(urlPath, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, errorResponse{Success: false, Error: "Not found"})
			return
		}
		// Clean against "/" so the result cannot leave dir.
		candidate := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+urlPath)))
		if serveStatic(c, candidate) || serveStatic(c, index) {
			return
		}
		c.JSON(http.StatusNotFound, errorResponse{Success: false, Error: "Not found"})
	}
}

// serveStatic writes a regular file and reports whether it did.
// http.ServeFile is not used: it answers 400 to any raw path with ".." even after cleaning.
func serveStatic(c *gin.Context, file string) bool {
	f, err := os.Open(file)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}
