package handler

import (
	"net/http"

	"cardstack/internal/model"
	"cardstack/internal/rbac"
	"cardstack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardSetHandler struct {
	cardSetRepo *repository.CardSetRepository
	resolver    *rbac.Resolver
}

func NewCardSetHandler(cardSetRepo *repository.CardSetRepository, resolver *rbac.Resolver) *CardSetHandler {
	return &CardSetHandler{cardSetRepo: cardSetRepo, resolver: resolver}
}

type CreateCardSetRequest struct {
	BoardID string `json:"board_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

type CardSetResponse struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
}

func (h *CardSetHandler) checkSetPermission(c *gin.Context, userID, boardID uuid.UUID, permission string) bool {
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

// getSetChecked загружает набор и проверяет разрешение в контексте его доски
func (h *CardSetHandler) getSetChecked(c *gin.Context, userID uuid.UUID, permission string) (*model.CardSet, bool) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card set ID format"})
		return nil, false
	}

	set, err := h.cardSetRepo.GetByID(c.Request.Context(), setID)
	if err != nil {
		if err == repository.ErrCardSetNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card set not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card set"})
		}
		return nil, false
	}

	if !h.checkSetPermission(c, userID, set.BoardID, permission) {
		return nil, false
	}
	return set, true
}

func (h *CardSetHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreateCardSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	if !h.checkSetPermission(c, userID, boardID, model.PermCardsEdit) {
		return
	}

	set := &model.CardSet{BoardID: boardID, Name: req.Name}
	if err := h.cardSetRepo.Create(c.Request.Context(), set); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card set"})
		return
	}

	c.JSON(http.StatusCreated, CardSetResponse{
		ID:      set.ID.String(),
		BoardID: set.BoardID.String(),
		Name:    set.Name,
	})
}

func (h *CardSetHandler) GetByBoard(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	if !h.checkSetPermission(c, userID, boardID, model.PermCardsView) {
		return
	}

	sets, err := h.cardSetRepo.GetByBoard(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card sets"})
		return
	}

	response := make([]CardSetResponse, len(sets))
	for i, set := range sets {
		response[i] = CardSetResponse{
			ID:      set.ID.String(),
			BoardID: set.BoardID.String(),
			Name:    set.Name,
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *CardSetHandler) GetCards(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	set, ok := h.getSetChecked(c, userID, model.PermCardsView)
	if !ok {
		return
	}

	cards, err := h.cardSetRepo.GetCards(c.Request.Context(), set.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *CardSetHandler) AddCard(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	set, ok := h.getSetChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("card_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	if err := h.cardSetRepo.AddCard(c.Request.Context(), set.ID, cardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add card to set"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CardSetHandler) RemoveCard(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	set, ok := h.getSetChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("card_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	if err := h.cardSetRepo.RemoveCard(c.Request.Context(), set.ID, cardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove card from set"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CardSetHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	set, ok := h.getSetChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	if err := h.cardSetRepo.Delete(c.Request.Context(), set.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card set"})
		return
	}

	c.Status(http.StatusNoContent)
}
