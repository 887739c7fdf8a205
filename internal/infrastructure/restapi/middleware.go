package restapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"bridge_router/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// ZapLoggerMiddleware logs one line per request and tags it with a request id.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Header(requestIDHeader, reqID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// CORSMiddleware allows only whitelisted origins. Requests without an Origin header
// (curl, same-origin GET) pass through; unknown origins get 403.
func CORSMiddleware(allowedOrigins []string) []gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	isAllowed := func(origin string) bool {
		_, ok := allowed[strings.TrimRight(origin, "/")]
		return ok
	}

	guard := func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && !isAllowed(origin) {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Success: false, Error: "Not allowed by CORS: " + origin})
			return
		}
		c.Next()
	}

	return []gin.HandlerFunc{
		guard,
		cors.New(cors.Config{
			AllowOriginFunc:  isAllowed,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	}
}

// BodyLimitMiddleware caps request bodies at maxBytes.
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{Success: false, Error: "Request body too large"})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RateLimiter keeps one token bucket per client IP. Idle buckets expire from the cache.
type RateLimiter struct {
	store *cache.Cache
	limit rate.Limit
	burst int
	mu    sync.Mutex
}

// NewRateLimiter allows requestsPerMinute per client with the given burst.
func NewRateLimiter(requestsPerMinute, burst int, idleTTL time.Duration) *RateLimiter {
	return &RateLimiter{
		store: cache.New(idleTTL, idleTTL/2),
		limit: rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst: burst,
	}
}

func (r *RateLimiter) limiterFor(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, found := r.store.Get(key); found {
		l := v.(*rate.Limiter)
		r.store.SetDefault(key, l) // refresh idle expiry
		return l
	}
	l := rate.NewLimiter(r.limit, r.burst)
	r.store.SetDefault(key, l)
	return l
}

// Allow reports whether a request from key may proceed now.
func (r *RateLimiter) Allow(key string) bool {
	return r.limiterFor(key).Allow()
}

// Middleware rejects over-limit clients with 429.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow(c.ClientIP()) {
			metrics.RateLimited.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Success: false, Error: "Too many requests, please try again later."})
			return
		}
		c.Next()
	}
}
