// Package auth выпускает и проверяет сессионные токены (HS256 JWT)
// и привязывает их к HTTP-only cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims содержит стандартные утверждения токена (iss, iat, exp) и username владельца
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// SessionConfig параметры выпуска сессий
type SessionConfig struct {
	Secret       string
	Issuer       string
	TTL          time.Duration
	CookieSecure bool
}

// SessionIssuer выпускает подписанные токены и проверяет их подпись, издателя и срок действия.
// Серверного хранилища сессий нет, токен самодостаточен.
type SessionIssuer struct {
	secret       []byte
	issuer       string
	ttl          time.Duration
	cookieSecure bool
	now          func() time.Time
}

// NewSessionIssuer создает SessionIssuer
func NewSessionIssuer(cfg SessionConfig) *SessionIssuer {
	return &SessionIssuer{
		secret:       []byte(cfg.Secret),
		issuer:       cfg.Issuer,
		ttl:          cfg.TTL,
		cookieSecure: cfg.CookieSecure,
		now:          time.Now,
	}
}

// TTL срок жизни токена, он же maxAge cookie
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue выпускает токен для username. Срок действия задается явно в самом токене,
// независимо от maxAge cookie.
func (s *SessionIssuer) Issue(username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("issue session: %w", domain.ErrBadRequest)
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify проверяет подпись, алгоритм, издателя и срок действия токена и возвращает username.
// Истекший токен дает domain.ErrTokenExpired, любой другой дефект domain.ErrInvalidToken.
func (s *SessionIssuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Username == "" {
		return "", domain.ErrInvalidToken
	}

	return claims.Username, nil
}
