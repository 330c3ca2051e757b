package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const APIVersion = "1.0.0"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
}

// Root godoc
// @Summary Информация об API
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "File Integrity System API",
		"version": APIVersion,
		"docs":    "/swagger/index.html",
	})
}

// Health godoc
// @Summary Проверка живости
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
