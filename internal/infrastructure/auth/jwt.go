package authinfra

import (
	"errors"
	"time"

	"lottery-odds/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

// JWTIssuer 產生/驗證 JWT access token。管理端只用短效 access token，不發 refresh token。
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTIssuer 建立 JWT 簽發器。
func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	return &JWTIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// Claims 定義 access token 的 payload。
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue 簽發 access token。
func (j *JWTIssuer) Issue(subject string, role auth.Role) (auth.Token, error) {
	now := j.now()
	exp := now.Add(j.accessTTL)
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return auth.Token{}, err
	}
	return auth.Token{AccessToken: signed, ExpiresAt: exp}, nil
}

// ParseAccessToken 驗證並解析 access token。
func (j *JWTIssuer) ParseAccessToken(token string) (Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return Claims{}, err
	}
	if !tkn.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return claims, nil
}
