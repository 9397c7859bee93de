package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lottery-odds/internal/application/view"
)

// sessionID 取得 session cookie，沒有時建立新的並寫回。
func (s *Server) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}
	id := view.NewID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		sessionCookieName,
		id,
		int(s.sessions.TTL().Seconds()),
		"/",
		"",
		isHTTPS(c.Request),
		true, // HttpOnly
	)
	return id
}

// isHTTPS 回傳請求是否經由 TLS 抵達（直接或經反向代理）。
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	proto, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ",")
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}

// hasSession 回傳請求是否帶有 session cookie。
func hasSession(c *gin.Context) bool {
	id, err := c.Cookie(sessionCookieName)
	return err == nil && strings.TrimSpace(id) != ""
}

func parseBearer(h string) string {
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func optionalTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
