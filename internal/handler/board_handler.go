package handler

import (
	"net/http"
	"time"

	"cardstack/internal/middleware"
	"cardstack/internal/model"
	"cardstack/internal/rbac"
	"cardstack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boardRepo repository.BoardRepositoryInterface
	lifecycle *rbac.Lifecycle
	resolver  *rbac.Resolver
}

func NewBoardHandler(
	boardRepo repository.BoardRepositoryInterface,
	lifecycle *rbac.Lifecycle,
	resolver *rbac.Resolver,
) *BoardHandler {
	return &BoardHandler{boardRepo: boardRepo, lifecycle: lifecycle, resolver: resolver}
}

type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type BoardResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	InviteCode  string `json:"invite_code,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// authenticatedUser достает ID пользователя, положенный auth middleware
func authenticatedUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return authenticatedUserID, true
}

func parseBoardID(c *gin.Context) (uuid.UUID, bool) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return uuid.Nil, false
	}
	return boardID, true
}

// checkBoardPermission проверяет разрешение в контексте доски
func (h *BoardHandler) checkBoardPermission(c *gin.Context, userID, boardID uuid.UUID, permission string) bool {
	set, err := h.resolver.EffectivePermissions(c.Request.Context(), userID, &boardID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !set.Has(permission) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return false
	}
	return true
}

func boardResponse(board *model.Board, includeCode bool) BoardResponse {
	resp := BoardResponse{
		ID:          board.ID.String(),
		Name:        board.Name,
		Description: board.Description,
		CreatedAt:   board.CreatedAt.Format(time.RFC3339),
	}
	if includeCode {
		resp.InviteCode = board.InviteCode
	}
	return resp
}

// Create создает доску; создатель становится ее единственным
// участником с административной ролью
func (h *BoardHandler) Create(c *gin.Context) {
	ownerID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.lifecycle.Create(c.Request.Context(), ownerID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, boardResponse(board, true))
}

func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i], false)
	}

	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	if !h.checkBoardPermission(c, userID, boardID, model.PermBoardsView) {
		return
	}

	// Инвайт-код видят только администраторы доски
	isAdmin, err := h.resolver.IsBoardAdmin(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, boardResponse(board, isAdmin))
}

func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	if !h.checkBoardPermission(c, userID, boardID, model.PermBoardsEdit) {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != "" {
		board.Name = req.Name
	}
	if req.Description != "" {
		board.Description = req.Description
	}

	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, boardResponse(board, false))
}
