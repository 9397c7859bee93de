package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"lottery-odds/internal/domain/auth"
)

// PasswordHasher 驗證密碼。
type PasswordHasher interface {
	Compare(hashed, plain string) bool
}

// TokenIssuer 簽發 token。
type TokenIssuer interface {
	Issue(subject string, role auth.Role) (auth.Token, error)
}

// Service 處理單一管理者帳號的登入。
type Service struct {
	username     string
	passwordHash string
	hasher       PasswordHasher
	tokens       TokenIssuer
}

// NewService 建立登入服務；passwordHash 為空代表停用登入。
func NewService(username, passwordHash string, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		username:     username,
		passwordHash: passwordHash,
		hasher:       hasher,
		tokens:       tokens,
	}
}

// Login 驗證帳密並簽發 access token。
func (s *Service) Login(_ context.Context, username, password string) (auth.Token, error) {
	if s.passwordHash == "" {
		return auth.Token{}, auth.ErrLoginDisabled
	}
	username = strings.TrimSpace(username)
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := s.hasher.Compare(s.passwordHash, password)
	if !userOK || !passOK {
		return auth.Token{}, auth.ErrInvalidCredentials
	}
	return s.tokens.Issue(username, auth.RoleAdmin)
}
