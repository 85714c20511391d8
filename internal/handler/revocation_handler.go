package handler

import (
	"net/http"

	"cardstack/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RevocationHandler struct {
	revocations *rbac.Revocations
}

func NewRevocationHandler(revocations *rbac.Revocations) *RevocationHandler {
	return &RevocationHandler{revocations: revocations}
}

type RevocationRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required"`
}

func (h *RevocationHandler) parseTarget(c *gin.Context) (uuid.UUID, []uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, nil, false
	}

	var req RevocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return uuid.Nil, nil, false
	}

	permissionIDs, ok := parseUUIDs(req.PermissionIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid permission ID format"})
		return uuid.Nil, nil, false
	}

	return userID, permissionIDs, true
}

// Add добавляет разрешения в denylist пользователя
func (h *RevocationHandler) Add(c *gin.Context) {
	userID, permissionIDs, ok := h.parseTarget(c)
	if !ok {
		return
	}

	if err := h.revocations.Add(c.Request.Context(), userID, permissionIDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Set полностью заменяет denylist пользователя
func (h *RevocationHandler) Set(c *gin.Context) {
	userID, permissionIDs, ok := h.parseTarget(c)
	if !ok {
		return
	}

	if err := h.revocations.Set(c.Request.Context(), userID, permissionIDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Remove убирает разрешения из denylist пользователя
func (h *RevocationHandler) Remove(c *gin.Context) {
	userID, permissionIDs, ok := h.parseTarget(c)
	if !ok {
		return
	}

	if err := h.revocations.Remove(c.Request.Context(), userID, permissionIDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RevocationHandler) Get(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	names, err := h.revocations.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": names})
}
