package handler

import (
	"net/http"

	"cardstack/internal/middleware"
	"cardstack/internal/model"
	"cardstack/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoleHandler struct {
	registry *rbac.Registry
}

func NewRoleHandler(registry *rbac.Registry) *RoleHandler {
	return &RoleHandler{registry: registry}
}

type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	Scope         string   `json:"scope" binding:"required,oneof=global board"`
	PermissionIDs []string `json:"permission_ids"`
}

type UpdateRoleRequest struct {
	Name          *string   `json:"name"`
	Scope         *string   `json:"scope"`
	PermissionIDs *[]string `json:"permission_ids"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Scope       string   `json:"scope"`
	IsAdmin     bool     `json:"is_admin"`
	Permissions []string `json:"permissions"`
}

func roleResponse(role *model.Role) RoleResponse {
	perms := make([]string, len(role.Permissions))
	for i, p := range role.Permissions {
		perms[i] = p.Name
	}
	return RoleResponse{
		ID:          role.ID.String(),
		Name:        role.Name,
		Scope:       role.Scope,
		IsAdmin:     role.IsAdmin,
		Permissions: perms,
	}
}

func parseUUIDs(values []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, len(values))
	for i, value := range values {
		parsed, err := uuid.Parse(value)
		if err != nil {
			return nil, false
		}
		ids[i] = parsed
	}
	return ids, true
}

// Create создает роль; создатель и все суперадминистраторы сразу
// получают ее в свои глобальные наборы
func (h *RoleHandler) Create(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	permissionIDs, ok := parseUUIDs(req.PermissionIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid permission ID format"})
		return
	}

	role, err := h.registry.Create(c.Request.Context(), authenticatedUserID, req.Name, req.Scope, permissionIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, roleResponse(role))
}

func (h *RoleHandler) List(c *gin.Context) {
	filter := rbac.RoleFilter{Scope: c.Query("scope")}

	roles, err := h.registry.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RoleResponse, len(roles))
	for i := range roles {
		response[i] = roleResponse(&roles[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *RoleHandler) GetByID(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID format"})
		return
	}

	roles, err := h.registry.GetByIDs(c.Request.Context(), []uuid.UUID{roleID})
	if err != nil {
		respondError(c, err)
		return
	}
	if len(roles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	c.JSON(http.StatusOK, roleResponse(&roles[0]))
}

func (h *RoleHandler) Update(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID format"})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	update := rbac.RoleUpdate{Name: req.Name, Scope: req.Scope}
	if req.PermissionIDs != nil {
		permissionIDs, ok := parseUUIDs(*req.PermissionIDs)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid permission ID format"})
			return
		}
		update.PermissionIDs = &permissionIDs
	}

	role, err := h.registry.Update(c.Request.Context(), roleID, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, roleResponse(role))
}

// Delete удаляет роль вместе со всеми ссылками на нее
func (h *RoleHandler) Delete(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID format"})
		return
	}

	if err := h.registry.Delete(c.Request.Context(), roleID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
