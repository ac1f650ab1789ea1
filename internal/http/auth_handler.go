package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genesis-api/internal/service"
)

// AuthHandler maneja registro, login por MFA y sesion.
type AuthHandler struct {
	logger       *zap.Logger
	auth         *service.AuthService
	tokens       *service.JWTService
	secureCookie bool
}

// NewAuthHandler construye el handler; secureCookie se activa en produccion.
func NewAuthHandler(logger *zap.Logger, auth *service.AuthService, tokens *service.JWTService, secureCookie bool) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{logger: logger, auth: auth, tokens: tokens, secureCookie: secureCookie}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if !bindJSON(c, &req) {
		return
	}

	challenge, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

// Login maneja POST /auth/login. No otorga sesion, solo envia el codigo.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	challenge, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// VerifyMFA maneja POST /auth/verify-mfa.
func (h *AuthHandler) VerifyMFA(c *gin.Context) {
	var req struct {
		Email   string `json:"email" binding:"required,email"`
		MFACode string `json:"mfaCode" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.auth.VerifyMFA(c.Request.Context(), req.Email, req.MFACode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setAccessCookie(c, session.AccessToken, int(h.tokens.TTL().Seconds()))
	c.JSON(http.StatusOK, session)
}

// Logout maneja POST /auth/logout. Siempre responde 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, _ := extractToken(c); token != "" {
		h.auth.EndSession(c.Request.Context(), token)
	}
	h.setAccessCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Me maneja GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		abortWithStatus(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := h.auth.GetUserDetails(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setAccessCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, value, maxAge, "/", "", h.secureCookie, true)
}
