package auth

import (
	"errors"
	"time"
)

// Role 為管理端點的角色。
type Role string

const RoleAdmin Role = "admin"

// Token 為簽發的 access token。
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginDisabled      = errors.New("admin login disabled")
)
