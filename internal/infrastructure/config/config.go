package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 儲存 HTTP API 及外部相依的執行設定。
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	DB       DBConfig       `yaml:"db"`
	Storage  StorageConfig  `yaml:"storage"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Auth     AuthConfig     `yaml:"auth"`
	View     ViewConfig     `yaml:"view"`
	Log      LogConfig      `yaml:"log"`
	Static   StaticConfig   `yaml:"static"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DBConfig struct {
	DSN            string        `yaml:"dsn"`
	MaxOpenConns   int           `yaml:"max_open_conns"`
	MaxIdleConns   int           `yaml:"max_idle_conns"`
	MaxIdleTime    time.Duration `yaml:"max_idle_time"`
	ConnectRetries int           `yaml:"connect_retries"`
}

// 快照儲存方式。
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

type UpstreamConfig struct {
	URLs    []string      `yaml:"urls"`
	Timeout time.Duration `yaml:"timeout"`
}

type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Enabled 為 nil 時視為啟用
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled 回傳排程刷新是否啟用。
func (r RefreshConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

type AuthConfig struct {
	TokenTTL          time.Duration `yaml:"token_ttl"`
	Secret            string        `yaml:"secret"`
	AdminUser         string        `yaml:"admin_user"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
}

type ViewConfig struct {
	Locale     string        `yaml:"locale"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StaticConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultUpstreamURLs 為購屋抽籤系統的三個分頁查詢。
var DefaultUpstreamURLs = []string{
	"https://www.dira.moch.gov.il/api/Invoker?method=Projects&param=%3FfirstApplicantIdentityNumber%3D%26secondApplicantIdentityNumber%3D%26ProjectStatus%3D4%26Entitlement%3D1%26PageNumber%3D1%26PageSize%3D50%26IsInit%3Dtrue%26",
	"https://www.dira.moch.gov.il/api/Invoker?method=Projects&param=%3FfirstApplicantIdentityNumber%3D%26secondApplicantIdentityNumber%3D%26ProjectStatus%3D1%26Entitlement%3D1%26PageNumber%3D2%26PageSize%3D50%26IsInit%3Dtrue%26",
	"https://www.dira.moch.gov.il/api/Invoker?method=Projects&param=%3FfirstApplicantIdentityNumber%3D%26secondApplicantIdentityNumber%3D%26ProjectStatus%3D1%26Entitlement%3D1%26PageNumber%3D3%26PageSize%3D50%26IsInit%3Dtrue%26",
}

// LoadFromFile 從 YAML 組態檔載入設定，再以環境變數覆寫。
func LoadFromFile(path string) (Config, error) {
	// 嘗試載入 .env 檔案（如果存在）
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg = applyDefaults(cfg)
	cfg, err = applyEnv(cfg)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg Config) Config {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":3000"
	}
	if cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 5
	}
	if cfg.DB.MaxIdleConns == 0 {
		cfg.DB.MaxIdleConns = 2
	}
	if cfg.DB.MaxIdleTime == 0 {
		cfg.DB.MaxIdleTime = 15 * time.Minute
	}
	if cfg.DB.ConnectRetries == 0 {
		cfg.DB.ConnectRetries = 5
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageMemory
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/snapshots.db"
	}
	if len(cfg.Upstream.URLs) == 0 {
		cfg.Upstream.URLs = append([]string(nil), DefaultUpstreamURLs...)
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 30 * time.Second
	}
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = time.Hour
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 30 * time.Minute
	}
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = "dev-secret-change-me"
	}
	if cfg.Auth.AdminUser == "" {
		cfg.Auth.AdminUser = "admin"
	}
	if cfg.View.Locale == "" {
		cfg.View.Locale = "he"
	}
	if cfg.View.SessionTTL == 0 {
		cfg.View.SessionTTL = 12 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	return cfg
}

// envOverrides 只有設定的環境變數會覆寫 YAML 與預設值。
type envOverrides struct {
	HTTPAddr          *string        `env:"HTTP_ADDR"`
	Port              *string        `env:"PORT"`
	DBDSN             *string        `env:"DB_DSN"`
	StorageDriver     *string        `env:"STORAGE_DRIVER"`
	SQLitePath        *string        `env:"SQLITE_PATH"`
	UpstreamURLs      []string       `env:"UPSTREAM_URLS" envSeparator:","`
	UpstreamTimeout   *time.Duration `env:"UPSTREAM_TIMEOUT"`
	RefreshInterval   *time.Duration `env:"REFRESH_INTERVAL"`
	RefreshEnabled    *bool          `env:"REFRESH_ENABLED"`
	AuthSecret        *string        `env:"AUTH_SECRET"`
	AdminUser         *string        `env:"ADMIN_USER"`
	AdminPasswordHash *string        `env:"ADMIN_PASSWORD_HASH"`
	ViewLocale        *string        `env:"VIEW_LOCALE"`
	SessionTTL        *time.Duration `env:"SESSION_TTL"`
	LogLevel          *string        `env:"LOG_LEVEL"`
	LogFormat         *string        `env:"LOG_FORMAT"`
	StaticDir         *string        `env:"STATIC_DIR"`
}

func applyEnv(cfg Config) (Config, error) {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	setString(&cfg.HTTP.Addr, o.HTTPAddr)
	if o.Port != nil && *o.Port != "" {
		cfg.HTTP.Addr = ":" + *o.Port
	}
	setString(&cfg.DB.DSN, o.DBDSN)
	setString(&cfg.Storage.Driver, o.StorageDriver)
	setString(&cfg.Storage.SQLitePath, o.SQLitePath)
	if len(o.UpstreamURLs) > 0 {
		cfg.Upstream.URLs = o.UpstreamURLs
	}
	setDuration(&cfg.Upstream.Timeout, o.UpstreamTimeout)
	setDuration(&cfg.Refresh.Interval, o.RefreshInterval)
	if o.RefreshEnabled != nil {
		cfg.Refresh.Enabled = o.RefreshEnabled
	}
	setString(&cfg.Auth.Secret, o.AuthSecret)
	setString(&cfg.Auth.AdminUser, o.AdminUser)
	setString(&cfg.Auth.AdminPasswordHash, o.AdminPasswordHash)
	setString(&cfg.View.Locale, o.ViewLocale)
	setDuration(&cfg.View.SessionTTL, o.SessionTTL)
	setString(&cfg.Log.Level, o.LogLevel)
	setString(&cfg.Log.Format, o.LogFormat)
	setString(&cfg.Static.Dir, o.StaticDir)
	return cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}

// Validate 檢查彼此相依的設定。
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("storage driver %q requires db.dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if len(c.Upstream.URLs) == 0 {
		return fmt.Errorf("upstream.urls must not be empty")
	}
	return nil
}
