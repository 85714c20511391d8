package handler

import (
	"errors"
	"net/http"

	"cardstack/internal/rbac"

	"github.com/gin-gonic/gin"
)

// respondError транслирует доменные виды ошибок ядра в HTTP-статусы.
// Ядро ничего не знает про транспорт, все соответствие живет здесь.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rbac.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, rbac.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, rbac.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": "Name already in use"})
	case errors.Is(err, rbac.ErrInvalidScope):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role scope"})
	case errors.Is(err, rbac.ErrInvalidCode):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid invite code"})
	case errors.Is(err, rbac.ErrLastAdminProtected):
		c.JSON(http.StatusConflict, gin.H{"error": "Board must retain at least one admin"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
