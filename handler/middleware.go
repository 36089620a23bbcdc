package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"net/http"
	"shortdrama/pkg/ratelimit"
	"strings"
	"time"
)

const (
	userIDKey       = "user_id"
	requestIDHeader = "X-Request-Id"
)

type Authenticator interface {
	VerifyUser(raw string) (uuid.UUID, error)
	VerifyAdmin(raw string) error
	VerifyWorker(raw string) bool
}

// RequestLogger puts a request scoped logger into the request context and
// writes one line per request.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		logger := base.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// CORS lets the viewer app call the API from any origin with a bearer token.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(string) bool { return true },
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader},
		MaxAge:          12 * time.Hour,
	})
}

func bearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func UserAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.VerifyUser(bearer(c))
		if err != nil {
			writeCode(c, http.StatusUnauthorized, codeUnauthorized)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func AdminAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.VerifyAdmin(bearer(c)); err != nil {
			writeCode(c, http.StatusUnauthorized, codeAdminUnauthorized)
			return
		}
		c.Next()
	}
}

func WorkerAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.VerifyWorker(bearer(c)) {
			writeCode(c, http.StatusUnauthorized, codeWorkerUnauthorized)
			return
		}
		c.Next()
	}
}

// RateLimit counts requests per client IP. A nil limiter disables it and a
// limiter error lets the request through.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		allowed, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limiter unavailable")
		}
		if !allowed {
			writeCode(c, http.StatusTooManyRequests, codeRateLimited)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) uuid.UUID {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(uuid.UUID)
	return userID
}
