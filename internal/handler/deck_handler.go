package handler

import (
	"net/http"

	"cardstack/internal/model"
	"cardstack/internal/rbac"
	"cardstack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeckHandler struct {
	deckRepo *repository.DeckRepository
	resolver *rbac.Resolver
}

func NewDeckHandler(deckRepo *repository.DeckRepository, resolver *rbac.Resolver) *DeckHandler {
	return &DeckHandler{deckRepo: deckRepo, resolver: resolver}
}

type CreateDeckRequest struct {
	BoardID     string `json:"board_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility" binding:"omitempty,oneof=private board public"`
	Position    int    `json:"position"`
}

type UpdateDeckRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility" binding:"omitempty,oneof=private board public"`
	Position    *int   `json:"position"`
}

type DeckResponse struct {
	ID          string `json:"id"`
	BoardID     string `json:"board_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	Position    int    `json:"position"`
	CreatedBy   string `json:"created_by"`
}

func deckResponse(deck *model.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID.String(),
		BoardID:     deck.BoardID.String(),
		Title:       deck.Title,
		Description: deck.Description,
		Visibility:  deck.Visibility,
		Position:    deck.Position,
		CreatedBy:   deck.CreatedBy.String(),
	}
}

// checkDeckPermission проверяет разрешение в контексте доски колоды
func (h *DeckHandler) checkDeckPermission(c *gin.Context, userID, boardID uuid.UUID, permission string) bool {
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

func (h *DeckHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	if !h.checkDeckPermission(c, userID, boardID, model.PermDecksEdit) {
		return
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityBoard
	}

	deck := &model.Deck{
		BoardID:     boardID,
		Title:       req.Title,
		Description: req.Description,
		Visibility:  visibility,
		Position:    req.Position,
		CreatedBy:   userID,
	}

	if err := h.deckRepo.Create(c.Request.Context(), deck); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deck"})
		return
	}

	c.JSON(http.StatusCreated, deckResponse(deck))
}

func (h *DeckHandler) GetByBoard(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	if !h.checkDeckPermission(c, userID, boardID, model.PermDecksView) {
		return
	}

	decks, err := h.deckRepo.GetByBoard(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve decks"})
		return
	}

	response := make([]DeckResponse, 0, len(decks))
	for i := range decks {
		// Приватные колоды видит только их создатель
		if decks[i].Visibility == model.VisibilityPrivate && decks[i].CreatedBy != userID {
			continue
		}
		response = append(response, deckResponse(&decks[i]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *DeckHandler) GetByID(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	deckID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deck ID format"})
		return
	}

	deck, err := h.deckRepo.GetByID(c.Request.Context(), deckID)
	if err != nil {
		if err == repository.ErrDeckNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deck"})
		}
		return
	}

	if deck.Visibility == model.VisibilityPrivate && deck.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	if deck.Visibility != model.VisibilityPublic {
		if !h.checkDeckPermission(c, userID, deck.BoardID, model.PermDecksView) {
			return
		}
	}

	c.JSON(http.StatusOK, deckResponse(deck))
}

func (h *DeckHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	deckID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deck ID format"})
		return
	}

	deck, err := h.deckRepo.GetByID(c.Request.Context(), deckID)
	if err != nil {
		if err == repository.ErrDeckNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deck"})
		}
		return
	}

	if !h.checkDeckPermission(c, userID, deck.BoardID, model.PermDecksEdit) {
		return
	}

	var req UpdateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Title != "" {
		deck.Title = req.Title
	}
	if req.Description != "" {
		deck.Description = req.Description
	}
	if req.Visibility != "" {
		deck.Visibility = req.Visibility
	}
	if req.Position != nil {
		deck.Position = *req.Position
	}

	if err := h.deckRepo.Update(c.Request.Context(), deck); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deck"})
		return
	}

	c.JSON(http.StatusOK, deckResponse(deck))
}

func (h *DeckHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	deckID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deck ID format"})
		return
	}

	deck, err := h.deckRepo.GetByID(c.Request.Context(), deckID)
	if err != nil {
		if err == repository.ErrDeckNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deck"})
		}
		return
	}

	if !h.checkDeckPermission(c, userID, deck.BoardID, model.PermDecksEdit) {
		return
	}

	if err := h.deckRepo.Delete(c.Request.Context(), deckID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete deck"})
		return
	}

	c.Status(http.StatusNoContent)
}
