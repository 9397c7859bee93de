package httpapi

import (
	"net/http"
	"time"

	"lottery-odds/internal/domain/auth"
	"lottery-odds/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const ctxRequestID = "requestID"

// requireAuth 驗證 Bearer token，且角色必須為 admin。
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := parseBearer(c.GetHeader("Authorization"))
		if token == "" || s.tokenSvc == nil {
			writeError(c, http.StatusUnauthorized, errCodeUnauthorized, "unauthorized")
			return
		}

		claims, err := s.tokenSvc.ParseAccessToken(token)
		if err != nil {
			writeError(c, http.StatusUnauthorized, errCodeUnauthorized, "invalid token")
			return
		}
		if claims.Role != string(auth.RoleAdmin) {
			writeError(c, http.StatusForbidden, errCodeForbidden, "forbidden")
			return
		}

		c.Set("userID", claims.Subject)
		c.Next()
	}
}

// requestLogger 以 logrus 記錄每個請求，並回傳 X-Request-ID。
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := logger.RequestID(c.Request)
		c.Set(ctxRequestID, reqID)
		c.Header(logger.RequestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		entry := s.log.WithRequest(c.Request, reqID).WithFields(logrus.Fields{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(route, c.Writer.Status(), time.Since(start))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
