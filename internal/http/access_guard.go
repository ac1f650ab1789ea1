package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genesis-api/internal/domain"
	"genesis-api/internal/service"
)

const (
	authClaimsKey    = "auth_claims"
	authPrincipalKey = "auth_principal"

	accessTokenCookie = "access_token"
)

// RouteAccess describe quien puede usar una ruta. Roles vacio = cualquier usuario autenticado.
type RouteAccess struct {
	Public bool
	Roles  []domain.Role
}

var (
	public        = RouteAccess{Public: true}
	authenticated = RouteAccess{}
	adminOnly     = RouteAccess{Roles: []domain.Role{domain.RoleAdmin}}
	readers       = RouteAccess{Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin}}
)

// AccessGuard valida el token de acceso y el rol del usuario por ruta.
type AccessGuard struct {
	logger *zap.Logger
	tokens *service.JWTService
	auth   *service.AuthService
}

func NewAccessGuard(logger *zap.Logger, tokens *service.JWTService, auth *service.AuthService) *AccessGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessGuard{logger: logger, tokens: tokens, auth: auth}
}

// Require devuelve el middleware para la ruta descrita por access.
func (g *AccessGuard) Require(access RouteAccess) gin.HandlerFunc {
	return func(c *gin.Context) {
		if access.Public {
			c.Next()
			return
		}

		token, msg := extractToken(c)
		if token == "" {
			abortWithStatus(c, http.StatusUnauthorized, msg)
			return
		}

		claims, err := g.tokens.ParseAccessToken(token)
		if err != nil {
			abortWithStatus(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := g.auth.ResolvePrincipal(c.Request.Context(), claims)
		if err != nil {
			respondError(c, g.logger, err)
			return
		}

		if len(access.Roles) > 0 && user.Role != domain.RoleAdmin && !slices.Contains(access.Roles, user.Role) {
			abortWithStatus(c, http.StatusForbidden, "Forbidden resource")
			return
		}

		c.Set(authClaimsKey, claims)
		c.Set(authPrincipalKey, user)
		c.Next()
	}
}

// extractToken prioriza la cookie y luego el header Bearer. Sin token devuelve el motivo.
func extractToken(c *gin.Context) (string, string) {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie), ""
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", "No token provided"
	}
	scheme, token, _ := strings.Cut(header, " ")
	if scheme != "Bearer" {
		return "", "Invalid token type. Expected Bearer token"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "Token is missing from Authorization header"
	}
	return token, ""
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

// GetPrincipal obtiene el usuario resuelto por el guard.
func GetPrincipal(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(authPrincipalKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
