package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// dataFailureMessage 為既有前端認得的錯誤文字。
const dataFailureMessage = "Failed to retrieve data"

// handleData 原樣回傳快取中的上游 JSON 陣列；冷啟動時同步抓取一次。
func (s *Server) handleData(c *gin.Context) {
	if s.snapshots == nil {
		writeError(c, http.StatusInternalServerError, errCodeUpstream, dataFailureMessage)
		return
	}
	entry, err := s.snapshots.GetSnapshot(c.Request.Context())
	if err != nil {
		s.log.WithError(err).Error("serve snapshot failed")
		writeError(c, http.StatusInternalServerError, errCodeUpstream, dataFailureMessage)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", entry.Payload)
}
