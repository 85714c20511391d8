package handler

import (
	"net/http"

	"cardstack/internal/rbac"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	catalog *rbac.Catalog
}

func NewPermissionHandler(catalog *rbac.Catalog) *PermissionHandler {
	return &PermissionHandler{catalog: catalog}
}

type CreatePermissionRequest struct {
	Name string `json:"name" binding:"required"`
}

type PermissionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Create creates a new named permission
func (h *PermissionHandler) Create(c *gin.Context) {
	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	permission, err := h.catalog.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, PermissionResponse{
		ID:   permission.ID.String(),
		Name: permission.Name,
	})
}

func (h *PermissionHandler) List(c *gin.Context) {
	permissions, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PermissionResponse, len(permissions))
	for i, permission := range permissions {
		response[i] = PermissionResponse{
			ID:   permission.ID.String(),
			Name: permission.Name,
		}
	}

	c.JSON(http.StatusOK, response)
}

// Delete удаляет разрешение по имени вместе со всеми ссылками на него
func (h *PermissionHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.catalog.Delete(c.Request.Context(), name); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
