package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers agrupa los handlers que el router monta.
type Handlers struct {
	Auth      *AuthHandler
	Config    *ConfigHandler
	Customers *CustomerHandler
	Posts     *PostHandler
	Health    *HealthHandler
}

// Pinger es lo que el health check necesita del store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responde la raiz y el chequeo de salud.
type HealthHandler struct {
	logger *zap.Logger
	store  Pinger
}

func NewHealthHandler(logger *zap.Logger, store Pinger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{logger: logger, store: store}
}

// Hello maneja GET /.
func (h *HealthHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World!"})
}

// Healthz maneja GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("store ping failed", zap.Error(err))
			abortWithStatus(c, http.StatusServiceUnavailable, "Store unavailable")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
