package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lottery-odds/internal/infrastructure/config"
)

// RequestIDHeader 為請求追蹤 id 的標頭。
const RequestIDHeader = "X-Request-ID"

// Logger 包裝 logrus.Entry，提供請求與錯誤欄位的慣用寫法。
type Logger struct {
	*logrus.Entry
}

// New 依設定建立 logger：text 格式適合本機，json 適合部署環境。
func New(cfg config.LogConfig) *Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput 同 New，但可指定輸出位置。
func NewWithOutput(cfg config.LogConfig, out io.Writer) *Logger {
	base := logrus.New()
	if cfg.Format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	}
	base.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	return &Logger{Entry: logrus.NewEntry(base)}
}

// RequestID 取得請求 id，沒有時產生新的。
func RequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

// WithRequest 附上請求相關欄位。
func (l *Logger) WithRequest(r *http.Request, reqID string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"req_id":     reqID,
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote_ip":  r.RemoteAddr,
		"user_agent": r.UserAgent(),
	})
}

// WithError 統一錯誤欄位格式。
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}
