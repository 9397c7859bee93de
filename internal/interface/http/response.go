package httpapi

import (
	"errors"
	"net/http"

	"lottery-odds/internal/application/view"
	"lottery-odds/internal/domain/lottery"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Success:   false,
		Error:     msg,
		ErrorCode: code,
	})
}

// writeAppError 將應用層錯誤對應到 HTTP 狀態與錯誤碼。
func (s *Server) writeAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, view.ErrUnknownColumn):
		writeError(c, http.StatusBadRequest, errCodeUnknownColumn, err.Error())
	case errors.Is(err, view.ErrUnknownTable):
		writeError(c, http.StatusBadRequest, errCodeUnknownTable, err.Error())
	case errors.Is(err, view.ErrUnknownFilter):
		writeError(c, http.StatusBadRequest, errCodeUnknownFilter, err.Error())
	case errors.Is(err, lottery.ErrMalformedPayload):
		s.log.WithError(err).Warn("snapshot unavailable")
		writeError(c, http.StatusBadGateway, errCodeMalformed, "upstream returned an unexpected payload")
	case errors.Is(err, lottery.ErrUpstreamUnavailable):
		s.log.WithError(err).Warn("snapshot unavailable")
		writeError(c, http.StatusServiceUnavailable, errCodeUpstream, "upstream unavailable")
	default:
		s.log.WithError(err).Error("request failed")
		writeError(c, http.StatusInternalServerError, errCodeInternal, "internal error")
	}
}

func isViewError(err error) bool {
	return errors.Is(err, view.ErrUnknownColumn) ||
		errors.Is(err, view.ErrUnknownTable) ||
		errors.Is(err, view.ErrUnknownFilter)
}
