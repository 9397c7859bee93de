package httpapi

import (
	"context"
	"database/sql"
	"io"
	"net/http"

	appauth "lottery-odds/internal/application/auth"
	"lottery-odds/internal/application/catalog"
	"lottery-odds/internal/application/refresh"
	"lottery-odds/internal/application/view"
	"lottery-odds/internal/domain/lottery"
	authinfra "lottery-odds/internal/infrastructure/auth"
	"lottery-odds/internal/infrastructure/config"
	"lottery-odds/internal/infrastructure/logger"
	"lottery-odds/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

const (
	errCodeBadRequest         = "BAD_REQUEST"
	errCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	errCodeLoginDisabled      = "AUTH_LOGIN_DISABLED"
	errCodeUnauthorized       = "AUTH_UNAUTHORIZED"
	errCodeForbidden          = "AUTH_FORBIDDEN"
	errCodeUnknownColumn      = "VIEW_UNKNOWN_COLUMN"
	errCodeUnknownTable       = "VIEW_UNKNOWN_TABLE"
	errCodeUnknownFilter      = "VIEW_UNKNOWN_FILTER"
	errCodeUpstream           = "UPSTREAM_UNAVAILABLE"
	errCodeMalformed          = "UPSTREAM_MALFORMED"
	errCodeNotFound           = "NOT_FOUND"
	errCodeInternal           = "INTERNAL_ERROR"
	sessionCookieName         = "lottery_session"
)

// SnapshotService 為快取服務對 HTTP 層公開的操作。
type SnapshotService interface {
	GetSnapshot(ctx context.Context) (*lottery.CacheEntry, error)
	Refresh(ctx context.Context) (*lottery.CacheEntry, error)
	Status() refresh.Status
}

// CatalogReader 提供正規化後的資料。
type CatalogReader interface {
	Current(ctx context.Context) (catalog.Catalog, error)
}

// Deps 為 Server 的依賴。
type Deps struct {
	Snapshots     SnapshotService
	Catalog       CatalogReader
	Engine        *view.Engine
	Sessions      *view.Sessions
	Login         *appauth.Service
	Tokens        *authinfra.JWTIssuer
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
	DB            *sql.DB
	StorageDriver string
	StaticDir     string
}

// Server 封裝 HTTP 路由與依賴。
type Server struct {
	engine        *gin.Engine
	snapshots     SnapshotService
	catalog       CatalogReader
	views         *view.Engine
	sessions      *view.Sessions
	loginUC       *appauth.Service
	tokenSvc      *authinfra.JWTIssuer
	metrics       *metrics.Metrics
	log           *logger.Logger
	db            *sql.DB
	storageDriver string
	staticDir     string
}

// NewServer 建立 API 伺服器並註冊路由。
func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = logger.NewWithOutput(config.LogConfig{Level: "error"}, io.Discard)
	}
	if d.Engine == nil {
		d.Engine = view.NewEngine(view.NewFormatter("he"))
	}
	if d.Sessions == nil {
		d.Sessions = view.NewSessions(0)
	}
	if d.Catalog == nil && d.Snapshots != nil {
		d.Catalog = catalog.NewService(d.Snapshots, d.Logger)
	}

	s := &Server{
		snapshots:     d.Snapshots,
		catalog:       d.Catalog,
		views:         d.Engine,
		sessions:      d.Sessions,
		loginUC:       d.Login,
		tokenSvc:      d.Tokens,
		metrics:       d.Metrics,
		log:           d.Logger,
		db:            d.DB,
		storageDriver: d.StorageDriver,
		staticDir:     d.StaticDir,
	}
	s.engine = s.routes()
	return s
}

// Handler 回傳 http.Handler 供 http.Server 使用。
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(s.metricsMiddleware())
	r.Use(corsMiddleware())

	// 前端讀取的原始快照
	r.GET("/data", s.handleData)

	api := r.Group("/api")
	{
		api.GET("/ping", s.handlePing)
		api.GET("/health", s.handleHealth)

		api.GET("/view", s.handleView)

		sess := api.Group("/session")
		sess.GET("/view", s.handleSessionView)
		sess.POST("/filters", s.handleSetFilters)
		sess.DELETE("/filters/:kind", s.handleRemoveFilter)
		sess.POST("/sort/:table/:column", s.handleToggleSort)
		sess.DELETE("/sort/:table", s.handleClearSort)
		sess.POST("/reset", s.handleReset)

		api.GET("/export/projects.csv", s.handleExportCSV)
		api.GET("/export/projects.xlsx", s.handleExportXLSX)

		api.POST("/auth/login", s.handleLogin)

		admin := api.Group("/admin", s.requireAuth())
		admin.GET("/cache", s.handleCacheStatus)
		admin.POST("/refresh", s.handleForceRefresh)
	}

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	if s.staticDir != "" {
		files := http.FileServer(http.Dir(s.staticDir))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				writeError(c, http.StatusNotFound, errCodeNotFound, "not found")
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	} else {
		r.NoRoute(func(c *gin.Context) {
			writeError(c, http.StatusNotFound, errCodeNotFound, "not found")
		})
	}
	return r
}
