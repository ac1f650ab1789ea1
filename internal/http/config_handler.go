package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genesis-api/internal/service"
)

// ConfigHandler expone la configuracion del proyecto.
type ConfigHandler struct {
	logger  *zap.Logger
	configs *service.ProjectConfigService
}

func NewConfigHandler(logger *zap.Logger, configs *service.ProjectConfigService) *ConfigHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigHandler{logger: logger, configs: configs}
}

// Get maneja GET /auth/config.
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configs.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Update maneja PATCH /auth/config/:key con body {"value": ...}.
func (h *ConfigHandler) Update(c *gin.Context) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if !bindJSON(c, &req) {
		return
	}

	cfg, err := h.configs.Update(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
