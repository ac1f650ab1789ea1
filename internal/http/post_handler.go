package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genesis-api/internal/domain"
	"genesis-api/internal/service"
)

// PostHandler expone el CRUD de /posts.
type PostHandler struct {
	logger *zap.Logger
	posts  *service.PostService
}

func NewPostHandler(logger *zap.Logger, posts *service.PostService) *PostHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostHandler{logger: logger, posts: posts}
}

// Create maneja POST /posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Content     string   `json:"content" binding:"required"`
		IsPublished *bool    `json:"isPublished"`
		Tags        []string `json:"tags"`
	}
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), service.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: req.IsPublished,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// List maneja GET /posts.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// Get maneja GET /posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update maneja PATCH /posts/:id.
func (h *PostHandler) Update(c *gin.Context) {
	var req struct {
		Title       *string   `json:"title"`
		Content     *string   `json:"content"`
		IsPublished *bool     `json:"isPublished"`
		Tags        *[]string `json:"tags"`
	}
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), domain.PostPatch{
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: req.IsPublished,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete maneja DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
