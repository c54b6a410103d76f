package jokes

import (
	"errors"
	"net/http"

	"jokehub/internal/logger"
	"jokehub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts reads on the public group and mutations on the
// authenticated one.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/jokes", h.list)
	public.GET("/jokes/:id", h.get)

	protected.POST("/jokes", h.create)
	protected.PUT("/jokes/:id", h.update)
	protected.DELETE("/jokes/:id", h.delete)
}

type jokeRequest struct {
	Title string `json:"title"`
	Body  string `json:"body" binding:"required"`
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list jokes failed", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// jokeID validates the path parameter before it reaches the database; a
// malformed id is a plain 404, not a postgres cast error.
func jokeID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "joke not found"})
		return "", false
	}
	return id.String(), true
}

func (h *Handler) get(c *gin.Context) {
	id, ok := jokeID(c)
	if !ok {
		return
	}

	j, err := h.repo.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "joke not found"})
		return
	}
	if err != nil {
		h.serverError(c, "get joke failed", err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *Handler) create(c *gin.Context) {
	var req jokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	j, err := h.repo.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), req.Title, req.Body)
	if err != nil {
		h.serverError(c, "create joke failed", err)
		return
	}
	c.JSON(http.StatusCreated, j)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := jokeID(c)
	if !ok {
		return
	}

	var req jokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	j, err := h.repo.Update(c.Request.Context(), id, c.GetString(middleware.CtxUserID), req.Title, req.Body)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "joke not found"})
		return
	}
	if err != nil {
		h.serverError(c, "update joke failed", err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := jokeID(c)
	if !ok {
		return
	}

	err := h.repo.Delete(c.Request.Context(), id, c.GetString(middleware.CtxUserID))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "joke not found"})
		return
	}
	if err != nil {
		h.serverError(c, "delete joke failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{"error": err.Error()})
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
