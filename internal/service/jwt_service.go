package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"genesis-api/internal/domain"
)

const (
	tokenIssuer     = "genesis-api"
	tokenTypeAccess = "access"
	defaultTokenTTL = time.Hour
)

// JWTService emite y valida los tokens de sesion.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Claims lleva la identidad del usuario; Subject es el id.
type Claims struct {
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsMockUser bool        `json:"isMockUser,omitempty"`
	TokenType  string      `json:"typ"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

// NewJWTService acepta ttl cero (token ya vencido); un ttl negativo usa el default de una hora.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl < 0 {
		ttl = defaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: tokenIssuer,
		now:    time.Now,
	}
}

func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue firma un token de acceso y devuelve su expiracion.
func (s *JWTService) Issue(user domain.User, mock bool) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrJWTInvalid
	}
	if strings.TrimSpace(user.ID) == "" {
		return "", time.Time{}, ErrJWTInvalid
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Email:      user.Email,
		Role:       user.Role,
		IsMockUser: mock,
		TokenType:  tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *JWTService) ParseAccessToken(accessToken string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrJWTInvalid
	}
	if strings.TrimSpace(accessToken) == "" {
		return Claims{}, ErrJWTInvalid
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(accessToken, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	if claims.TokenType != tokenTypeAccess || strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}
