package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCacheStatus(c *gin.Context) {
	if s.snapshots == nil {
		writeError(c, http.StatusServiceUnavailable, errCodeUpstream, "snapshot source not configured")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"cache":    s.snapshots.Status(),
		"sessions": s.sessions.Len(),
	})
}

// handleForceRefresh 立即向上游抓取一次，失敗時保留舊快取。
func (s *Server) handleForceRefresh(c *gin.Context) {
	if s.snapshots == nil {
		writeError(c, http.StatusServiceUnavailable, errCodeUpstream, "snapshot source not configured")
		return
	}
	s.log.WithField("user", c.GetString("userID")).Info("manual refresh requested")
	if _, err := s.snapshots.Refresh(c.Request.Context()); err != nil {
		s.writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cache":   s.snapshots.Status(),
	})
}
