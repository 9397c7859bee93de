package httpapi

import (
	"errors"
	"net/http"
	"time"

	"lottery-odds/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	if s.loginUC == nil {
		writeError(c, http.StatusForbidden, errCodeLoginDisabled, "admin login disabled")
		return
	}

	tok, err := s.loginUC.Login(c.Request.Context(), body.Username, body.Password)
	if errors.Is(err, auth.ErrLoginDisabled) {
		writeError(c, http.StatusForbidden, errCodeLoginDisabled, "admin login disabled")
		return
	}
	if err != nil {
		s.log.WithField("username", body.Username).WithError(err).Warn("login failure")
		writeError(c, http.StatusUnauthorized, errCodeInvalidCredentials, "invalid username or password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"access_token": tok.AccessToken,
		"token_type":   "Bearer",
		"expiry":       tok.ExpiresAt.Format(time.RFC3339),
	})
}
