package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"status":    "alive",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	dbStatus := "ok"
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			dbStatus = "error: " + err.Error()
		}
	} else {
		dbStatus = "using_" + s.storageLabel()
	}

	cache := gin.H{"has_entry": false}
	if s.snapshots != nil {
		st := s.snapshots.Status()
		cache["has_entry"] = st.HasEntry
		if st.FetchedAt != nil {
			cache["fetched_at"] = optionalTime(*st.FetchedAt)
			cache["age_seconds"] = int(time.Since(*st.FetchedAt).Seconds())
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"health":  "ok",
		"db":      dbStatus,
		"cache":   cache,
		"time":    time.Now().Format(time.RFC3339),
	})
}

func (s *Server) storageLabel() string {
	if s.storageDriver == "" {
		return "memory"
	}
	return s.storageDriver
}
